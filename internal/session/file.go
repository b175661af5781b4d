package session

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileExt is appended to the id to name a session file.
const FileExt = ".save"

// FileStore keeps one encoded file per session in Dir. Files are written to a
// temporary name and renamed into place, so a reader never sees a partial
// snapshot.
type FileStore[T any] struct {
	Dir   string
	Codec Codec[T]
}

func NewFileStore[T any](dir string, codec Codec[T]) (*FileStore[T], error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore[T]{Dir: dir, Codec: codec}, nil
}

// Path returns the file backing id.
func (s *FileStore[T]) Path(id string) string {
	return filepath.Join(s.Dir, id+FileExt)
}

func (s *FileStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	if err := validID(id); err != nil {
		return zero, false, err
	}
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	data, err := os.ReadFile(s.Path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("read session %s: %w", id, err)
	}
	v, err := s.Codec.Decode(data)
	if err != nil {
		return zero, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return v, true, nil
}

func (s *FileStore[T]) Put(ctx context.Context, id string, v T) error {
	if err := validID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := s.Codec.Encode(v)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	return writeFileAtomic(s.Path(id), data)
}

func (s *FileStore[T]) NewID() string { return newID() }

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
