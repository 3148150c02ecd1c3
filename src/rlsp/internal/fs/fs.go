// Package fs wraps filesystem access behind an interface for testability.
package fs

import (
	"io/fs"
	"os"

	"go.uber.org/fx"
)

// Module provides RlspFS into an Fx application.
var Module = fx.Provide(New)

// RlspFS is the subset of filesystem operations used by the daemon.
type RlspFS interface {
	MkdirAll(path string) error
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
	Remove(name string) error
	FileExists(path string) (bool, error)
	DirExists(path string) (bool, error)
}

type fsImpl struct{}

// New creates a new RlspFS backed by the host filesystem.
func New() RlspFS {
	return fsImpl{}
}

func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

func (fsImpl) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (fsImpl) WriteFile(name string, data []byte) error {
	return os.WriteFile(name, data, 0644)
}

func (fsImpl) Remove(name string) error {
	return os.Remove(name)
}

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (fsImpl) DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
