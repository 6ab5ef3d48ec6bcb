//go:build linux || darwin

package iffl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/clktmr/unicone/drivers/iffl"
	"rsc.io/rsc/fuse"
)

func mount(bundle, dir string) error {
	s, f, err := openBundle(bundle)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}

	root := &fusefs{files: make(map[string]*fusefile), mtime: fi.ModTime()}
	for {
		info, data, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		file := &fusefile{info, data, root.mtime}
		root.names = append(root.names, file.name())
		root.files[file.name()] = file
	}

	c, err := fuse.Mount(dir)
	if err != nil {
		return err
	}
	go c.Serve(root)
	<-sigintr

	cmd := exec.Command("/bin/umount", dir)
	_, err = cmd.CombinedOutput()
	return err
}

// fusefs implements the file system and the read-only root dir Node.
type fusefs struct {
	names []string
	files map[string]*fusefile
	mtime time.Time
}

func (p *fusefs) Root() (fuse.Node, fuse.Error) {
	return p, nil
}

func (p *fusefs) Attr() fuse.Attr {
	return fuse.Attr{
		Mode:  os.ModeDir | 0o555,
		Mtime: p.mtime,
	}
}

func (p *fusefs) Lookup(name string, intr fuse.Intr) (fuse.Node, fuse.Error) {
	f, ok := p.files[name]
	if !ok {
		return nil, fuse.Errno(syscall.ENOENT)
	}
	return f, nil
}

func (p *fusefs) ReadDir(intr fuse.Intr) ([]fuse.Dirent, fuse.Error) {
	entries := make([]fuse.Dirent, len(p.names))
	for i, name := range p.names {
		entries[i] = fuse.Dirent{Name: name}
	}
	return entries, nil
}

// fusefile implements both Node and Handle for a single block.
type fusefile struct {
	info  iffl.BlockInfo
	data  []byte
	mtime time.Time
}

func (p *fusefile) name() string {
	return fmt.Sprintf("%02d_%07x.bin", p.info.Index, uint32(p.info.Addr))
}

func (p *fusefile) Attr() fuse.Attr {
	return fuse.Attr{
		Mode:  0o444,
		Mtime: p.mtime,
		Size:  uint64(len(p.data)),
	}
}

func (p *fusefile) ReadAll(intr fuse.Intr) ([]byte, fuse.Error) {
	return p.data, nil
}
