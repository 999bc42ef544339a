package protocols

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"

	"panelfiles/resolver"
)

// ftpConn is the part of *ftp.ServerConn the backend uses.
type ftpConn interface {
	List(path string) ([]*ftp.Entry, error)
	Rename(from, to string) error
	MakeDir(path string) error
	Quit() error
}

// FTPFileSystem runs every command on one control connection, so calls are
// serialized by mu.
type FTPFileSystem struct {
	Host     string
	Port     int
	User     string
	Password string
	RootPath string

	mu   sync.Mutex
	conn ftpConn
}

func (f *FTPFileSystem) Init() error {
	addr := fmt.Sprintf("%s:%d", f.Host, f.Port)
	c, err := ftp.Dial(addr, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return err
	}

	if err := c.Login(f.User, f.Password); err != nil {
		c.Quit()
		return err
	}
	f.mu.Lock()
	f.conn = c
	f.mu.Unlock()
	return nil
}

func (f *FTPFileSystem) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conn != nil {
		return f.conn.Quit()
	}
	return nil
}

func (f *FTPFileSystem) abs(elems ...string) (string, error) {
	rel, err := cleanRel(elems...)
	if err != nil {
		return "", err
	}
	return path.Join(f.RootPath, rel), nil
}

func (f *FTPFileSystem) List(ctx context.Context, dir string) ([]FileEntry, error) {
	fullPath, err := f.abs(dir)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	entries, err := f.conn.List(fullPath)
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	files := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Name == "." || entry.Name == ".." {
			continue
		}
		rel, _ := cleanRel(dir, entry.Name)
		files = append(files, FileEntry{
			Name:      entry.Name,
			Size:      int64(entry.Size),
			ModTime:   entry.Time,
			IsDir:     entry.Type == ftp.EntryTypeFolder,
			IsSymlink: entry.Type == ftp.EntryTypeLink,
			Path:      rel,
		})
	}
	return files, nil
}

func (f *FTPFileSystem) Rename(ctx context.Context, dir string, pairs []resolver.Pair) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return renameEach(ctx, pairs, func(from, to string) error {
		src, err := f.abs(dir, from)
		if err != nil {
			return err
		}
		dst, err := f.abs(dir, to)
		if err != nil {
			return err
		}
		f.makeParents(path.Dir(dst))
		return f.conn.Rename(src, dst)
	})
}

// makeParents creates every missing directory down to fullPath. FTP has no
// MkdirAll, so errors for directories that already exist are ignored.
func (f *FTPFileSystem) makeParents(fullPath string) {
	dirs := []string{}
	curr := fullPath
	for curr != "." && curr != "/" && curr != "" && curr != path.Clean(f.RootPath) {
		dirs = append(dirs, curr)
		curr = path.Dir(curr)
	}

	for i := len(dirs) - 1; i >= 0; i-- {
		f.conn.MakeDir(dirs[i])
	}
}
