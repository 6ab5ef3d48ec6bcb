// Package storage provides the transports bundles are mounted from: a plain
// directory on the host or a FAT32 formatted SD card image as used by the
// MEGA65's internal card slot.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	"github.com/diskfs/go-diskfs/filesystem"

	"github.com/clktmr/unicone/drivers/iffl"
)

// Ext is the file extension of bundles.
const Ext = ".ifl"

var ErrNotFAT32 = errors.New("not a FAT32 image")

// FileName returns the name of the file holding the bundle of session name,
// e.g. "unicone0.ifl" for "+UNICONE0".
func FileName(session string) string {
	return strings.ToLower(strings.TrimLeft(session, "+")) + Ext
}

// shortName returns the 8.3 directory entry name for the bundle of session.
func shortName(session string) string {
	return "/" + strings.ToUpper(FileName(session))
}

// FS mounts bundles from a file system, usually a directory on the host.
type FS struct {
	fsys fs.FS
}

var _ iffl.Transport = (*FS)(nil)

func NewFS(fsys fs.FS) *FS {
	return &FS{fsys}
}

func (t *FS) Mount(name string) (io.ReadCloser, error) {
	return t.fsys.Open(FileName(name))
}

// Image mounts bundles from the root directory of a FAT32 disk image.
type Image struct {
	d  *disk.Disk
	fs filesystem.FileSystem
}

var _ iffl.Transport = (*Image)(nil)

// OpenImage opens the disk image at path read-only. The image must not be
// partitioned.
func OpenImage(path string) (*Image, error) {
	d, err := diskfs.Open(path, diskfs.WithOpenMode(diskfs.ReadOnly))
	if err != nil {
		return nil, err
	}
	fsys, err := d.GetFilesystem(0)
	if err != nil {
		d.File.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if fsys.Type() != filesystem.TypeFat32 {
		d.File.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotFAT32)
	}
	return &Image{d, fsys}, nil
}

func (img *Image) Mount(name string) (io.ReadCloser, error) {
	return img.fs.OpenFile(shortName(name), os.O_RDONLY)
}

// Label returns the image's volume label.
func (img *Image) Label() string {
	return strings.TrimSpace(img.fs.Label())
}

// Files returns the names of all bundles in the image's root directory.
func (img *Image) Files() ([]string, error) {
	infos, err := img.fs.ReadDir("/")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, fi := range infos {
		if !fi.IsDir() && strings.HasSuffix(strings.ToLower(fi.Name()), Ext) {
			names = append(names, fi.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (img *Image) Close() error {
	return img.d.File.Close()
}

// CreateImage writes a FAT32 image of size bytes at path holding bundles,
// which maps session names to bundle contents.
func CreateImage(path string, size int64, label string, bundles map[string][]byte) (err error) {
	d, err := diskfs.Create(path, size, diskfs.Raw, diskfs.SectorSizeDefault)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := d.File.Close(); err == nil {
			err = cerr
		}
	}()

	fsys, err := d.CreateFilesystem(disk.FilesystemSpec{
		Partition:   0,
		FSType:      filesystem.TypeFat32,
		VolumeLabel: label,
	})
	if err != nil {
		return err
	}

	names := make([]string, 0, len(bundles))
	for name := range bundles {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f, err := fsys.OpenFile(shortName(name), os.O_CREATE|os.O_RDWR)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		_, err = f.Write(bundles[name])
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
