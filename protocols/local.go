package protocols

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"panelfiles/resolver"
)

type LocalFileSystem struct {
	RootPath string
}

func (l *LocalFileSystem) Init() error {
	return os.MkdirAll(l.RootPath, 0755)
}

func (l *LocalFileSystem) Close() error {
	return nil
}

// abs resolves a slash path relative to the root onto the local disk.
func (l *LocalFileSystem) abs(elems ...string) (string, error) {
	rel, err := cleanRel(elems...)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.RootPath, filepath.FromSlash(rel)), nil
}

func (l *LocalFileSystem) List(ctx context.Context, dir string) ([]FileEntry, error) {
	fullPath, err := l.abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	files := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		isSymlink := entry.Type()&fs.ModeSymlink != 0
		isDir := entry.IsDir()
		if isSymlink {
			// Links report the type of their target, like the panel does.
			if target, err := os.Stat(filepath.Join(fullPath, entry.Name())); err == nil {
				isDir = target.IsDir()
			}
		}
		rel, _ := cleanRel(dir, entry.Name())
		files = append(files, FileEntry{
			Name:      entry.Name(),
			Size:      info.Size(),
			ModTime:   info.ModTime(),
			IsDir:     isDir,
			IsSymlink: isSymlink,
			Mode:      info.Mode().String(),
			Path:      rel,
		})
	}
	return files, nil
}

func (l *LocalFileSystem) Rename(ctx context.Context, dir string, pairs []resolver.Pair) error {
	return renameEach(ctx, pairs, func(from, to string) error {
		src, err := l.abs(dir, from)
		if err != nil {
			return err
		}
		dst, err := l.abs(dir, to)
		if err != nil {
			return err
		}
		if _, err := os.Lstat(src); errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		if _, err := os.Lstat(dst); err == nil {
			return fs.ErrExist
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return err
		}
		return os.Rename(src, dst)
	})
}
