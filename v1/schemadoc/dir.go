package schemadoc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// DirStore reads schema documents from one directory of an afero.Fs.
// Subdirectories are not searched.
type DirStore struct {
	fs            afero.Fs
	dir           string
	defaultFormat Format
}

// NewDirStore returns a store over dir in fsys. A nil fsys means the OS
// filesystem.
func NewDirStore(fsys afero.Fs, dir string, defaultFormat Format) *DirStore {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &DirStore{
		fs:            fsys,
		dir:           dir,
		defaultFormat: defaultFormat.Normalize(),
	}
}

// CurrentAuthoritative returns the document with the highest version.
func (s *DirStore) CurrentAuthoritative(ctx context.Context) (*Document, error) {
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}
	return latest(ctx, s.dir, candidates, s.read, s.defaultFormat)
}

func (s *DirStore) List(ctx context.Context) ([]*Document, error) {
	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}
	return all(ctx, s.dir, candidates, s.read, s.defaultFormat)
}

func (s *DirStore) candidates(ctx context.Context) ([]candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s does not exist", ErrNoLocalSchema, s.dir)
		}
		return nil, fmt.Errorf("list schema directory %s: %w", s.dir, err)
	}

	var out []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if c, ok := candidateOf(filepath.Join(s.dir, entry.Name())); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *DirStore) read(_ context.Context, name string) ([]byte, error) {
	return afero.ReadFile(s.fs, name)
}
