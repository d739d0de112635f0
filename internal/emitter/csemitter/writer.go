package csemitter

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives rendered artifacts one at a time.
type Sink interface {
	Write(relPath string, content []byte) error
}

// DirSink writes artifacts below Root, creating directories as needed and
// replacing existing files atomically.
type DirSink struct {
	Root string
}

func (d DirSink) Write(relPath string, content []byte) error {
	root := d.Root
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	return writeFileAtomic(abs, relPath, content)
}

// discardSink backs dry runs.
type discardSink struct{}

func (discardSink) Write(string, []byte) error { return nil }

// writeFileAtomic writes content to a temp file next to the target and renames
// it into place, so readers never observe a half-written artifact.
func writeFileAtomic(baseDir, relPath string, content []byte) error {
	fullPath := filepath.Join(baseDir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure target directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-csemitter-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", relPath, err)
	}
	tmpPath := tmpFile.Name()
	success := false
	defer func() {
		if tmpFile != nil {
			tmpFile.Close()
		}
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		return fmt.Errorf("set file permissions: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	tmpFile = nil

	if err := os.Rename(tmpPath, fullPath); err != nil {
		return fmt.Errorf("atomic rename %s to %s: %w", tmpPath, fullPath, err)
	}
	success = true
	return nil
}
