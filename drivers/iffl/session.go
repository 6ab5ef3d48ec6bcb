package iffl

import (
	"errors"
	"fmt"
	"io"

	"github.com/clktmr/unicone/debug"
)

var (
	ErrUnavailable = errors.New("session unavailable")
	ErrSessionOpen = errors.New("another session is open")
	ErrNoSession   = errors.New("no session open")
	ErrExhausted   = errors.New("session exhausted")
)

// A Transport locates bundles on the storage device. Closing the returned
// reader unmounts the bundle.
type Transport interface {
	Mount(name string) (io.ReadCloser, error)
}

// SessionError records an error and the operation and session that caused
// it.
type SessionError struct {
	Op   string
	Name string
	Err  error
}

func (e *SessionError) Error() string {
	return "iffl: " + e.Op + " " + e.Name + ": " + e.Err.Error()
}

func (e *SessionError) Unwrap() error { return e.Err }

type session struct {
	*Stream
	name string
	rc   io.ReadCloser
	err  error // sticky read error
}

// Loader streams blocks of one session at a time into memory.
//
// Loader is not safe for concurrent use.
type Loader struct {
	tr  Transport
	dst io.WriterAt
	cur *session
}

// NewLoader returns a Loader mounting sessions from tr and writing blocks to
// dst, using the blocks' load address as offset.
func NewLoader(tr Transport, dst io.WriterAt) *Loader {
	return &Loader{tr: tr, dst: dst}
}

// Session returns the name of the open session.
func (l *Loader) Session() (name string, ok bool) {
	if l.cur == nil {
		return "", false
	}
	return l.cur.name, true
}

// Open starts the session name. Only one session can be open at a time.
func (l *Loader) Open(name string) error {
	if l.cur != nil {
		return &SessionError{"open", name, fmt.Errorf("%w: %s", ErrSessionOpen, l.cur.name)}
	}

	want, err := encodeName(name)
	if err != nil {
		return &SessionError{"open", name, err}
	}

	rc, err := l.tr.Mount(name)
	if err != nil {
		return &SessionError{"open", name, fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	s, err := NewStream(rc)
	if err != nil {
		rc.Close()
		return &SessionError{"open", name, fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	if got, _ := encodeName(s.Name()); got != want {
		rc.Close()
		return &SessionError{"open", name, fmt.Errorf("%w: volume is %q", ErrUnavailable, s.Name())}
	}

	l.cur = &session{Stream: s, name: name, rc: rc}
	return nil
}

// Peek returns the directory entry of the next block without reading it.
func (l *Loader) Peek() (BlockInfo, error) {
	if l.cur == nil {
		return BlockInfo{}, &SessionError{"peek", "", ErrNoSession}
	}
	info, err := l.cur.Peek()
	if err == io.EOF {
		err = ErrExhausted
	}
	if err != nil {
		return info, &SessionError{"peek", l.cur.name, err}
	}
	return info, nil
}

// Next reads the next block of the open session into memory. Reading past
// the last block is an error.
func (l *Loader) Next() (BlockInfo, error) {
	s := l.cur
	if s == nil {
		return BlockInfo{}, &SessionError{"read", "", ErrNoSession}
	}
	if s.err != nil {
		return BlockInfo{}, &SessionError{"read", s.name, s.err}
	}

	info, p, err := s.Next()
	if err == io.EOF {
		return info, &SessionError{"read", s.name, ErrExhausted}
	}
	if err == nil {
		debug.Assertf(len(p) == info.Size, "block %v delivered %d bytes", info, len(p))
		_, err = l.dst.WriteAt(p, int64(info.Addr))
	}
	if err != nil {
		s.err = err
		return info, &SessionError{"read", s.name, err}
	}
	return info, nil
}

// Close ends the open session.
func (l *Loader) Close() error {
	s := l.cur
	if s == nil {
		return &SessionError{"close", "", ErrNoSession}
	}
	l.cur = nil
	if err := s.rc.Close(); err != nil {
		return &SessionError{"close", s.name, err}
	}
	return nil
}
