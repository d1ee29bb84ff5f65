package listeners

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kilianp07/waterlog/core/logging"
)

// File appends lines to a file rotated by lumberjack.
type File struct {
	*logging.Base
	mu sync.Mutex
	lj *lumberjack.Logger
}

// NewFile returns a File writing to path. The directory is created on the
// first write.
func NewFile(name, path string) *File {
	return &File{Base: logging.NewBase(name), lj: &lumberjack.Logger{Filename: path}}
}

// Path returns the active file path.
func (f *File) Path() string { return f.lj.Filename }

// Configure adjusts the rotation settings.
func (f *File) Configure(fn func(lj *lumberjack.Logger)) {
	f.mu.Lock()
	fn(f.lj)
	f.mu.Unlock()
}

func (f *File) Write(message, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if dir := filepath.Dir(f.lj.Filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	_, err := io.WriteString(f.lj, terminate(message))
	return err
}

// Rotate starts a new file, keeping the old one as a backup.
func (f *File) Rotate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lj.Rotate()
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lj.Close()
}
