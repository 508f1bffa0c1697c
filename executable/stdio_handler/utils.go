package stdio_handler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
)

// closeIfNotNil closes an io.Closer if it is not a nil pointer
func closeIfNotNil(c io.Closer) error {
	v := reflect.ValueOf(c)

	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		return nil
	}

	return c.Close()
}

// closeIfOpen closes an io.Closer, treating "already closed" as success
func closeIfOpen(c io.Closer) error {
	if err := closeIfNotNil(c); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}

	return nil
}

// closeAllWithCloserFunc makes best effort (attempts to close all even in case of error)
// to close all the io.Closer interfaces using the provided closer function.
func closeAllWithCloserFunc(closer func(io.Closer) error, streams ...io.Closer) error {
	var firstError error
	for _, stream := range streams {
		if err := closer(stream); err != nil && firstError == nil {
			firstError = err
		}
	}
	return firstError
}

// ResolveExecutable resolves the program a spawn should run:
//  1. A name containing a slash is taken relative to dir (the child's cwd), and must be an executable file
//  2. A bare name is searched for in PATH
func ResolveExecutable(name string, dir string) (string, error) {
	if name == "" {
		return "", errors.New("executable name is empty")
	}

	if !strings.Contains(name, "/") {
		path, err := exec.LookPath(name)
		if err != nil {
			return "", fmt.Errorf("%s not found", name)
		}
		return filepath.Abs(path)
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%s not found", filepath.Base(name))
	}

	if fileInfo.Mode().Perm()&0111 == 0 || fileInfo.IsDir() {
		return "", fmt.Errorf("%s (resolved to %s) is not an executable file", name, path)
	}

	return path, nil
}
