package corpus

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads a corpus from the local filesystem
type FileSource struct {
	Path string
}

// NewFileSource creates a corpus source for a local file
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Fetch reads the whole file
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return data, nil
}

// Name identifies the source in reports and logs
func (s *FileSource) Name() string {
	return "file://" + s.Path
}

// BytesSource serves an in-memory corpus document
type BytesSource struct {
	Label string
	Data  []byte
}

func (s *BytesSource) Fetch(ctx context.Context) ([]byte, error) {
	return s.Data, ctx.Err()
}

func (s *BytesSource) Name() string {
	if s.Label == "" {
		return "memory"
	}
	return s.Label
}
