// Package shared reads the optional wrapper (layout) source and global stylesheet
// that apply to every route of a source tree.
package shared

import (
	"errors"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/bundleless/internal/foundation/errors"
)

// Context is the shared input for one generation run.
type Context struct {
	// Wrapper is the layout source; empty when HasWrapper is false.
	Wrapper     string
	WrapperFile string
	HasWrapper  bool
	// Stylesheet is the raw global stylesheet, empty when absent.
	Stylesheet string
}

// Reader locates shared files by name inside a source directory.
type Reader struct {
	layoutFiles []string
	stylesheet  string
}

// NewReader returns a Reader probing layoutFiles in order and reading the named stylesheet.
func NewReader(layoutFiles []string, stylesheet string) *Reader {
	return &Reader{layoutFiles: append([]string(nil), layoutFiles...), stylesheet: stylesheet}
}

// Read loads the shared context of sourceDir. Missing files are not errors;
// only a file that exists but cannot be read is.
func (r *Reader) Read(sourceDir string) (Context, error) {
	var sc Context
	for _, name := range r.layoutFiles {
		path := filepath.Join(sourceDir, name)
		content, ok, err := readOptional(path)
		if err != nil {
			return Context{}, err
		}
		if ok {
			sc.Wrapper, sc.WrapperFile, sc.HasWrapper = content, path, true
			break
		}
	}
	if r.stylesheet != "" {
		content, _, err := readOptional(filepath.Join(sourceDir, r.stylesheet))
		if err != nil {
			return Context{}, err
		}
		sc.Stylesheet = content
	}
	return sc, nil
}

func readOptional(path string) (string, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, ferrors.FileSystemError("stat shared file").WithCause(err).WithContext("path", path).Build()
	}
	if !info.Mode().IsRegular() {
		return "", false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, ferrors.FileSystemError("read shared file").WithCause(err).WithContext("path", path).Build()
	}
	return string(data), true, nil
}
