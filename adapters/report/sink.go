package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSink writes report artifacts into a directory.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink over an existing directory.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

func (s *DirSink) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
