//go:build !(linux || darwin)

package iffl

import (
	"errors"
	"runtime"
)

func mount(bundle, dir string) error {
	return errors.New("mount: not supported on " + runtime.GOOS)
}
