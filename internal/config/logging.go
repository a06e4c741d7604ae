package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// InitLogging points the standard logger at stdout and, when path is set, at
// an appended log file as well. The returned closer releases the file.
func InitLogging(path string) (io.Closer, error) {
	log.SetOutput(os.Stdout)
	if path == "" {
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return io.NopCloser(nil), err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return io.NopCloser(nil), err
	}
	log.SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}
