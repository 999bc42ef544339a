package protocols

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"panelfiles/resolver"
)

type SFTPFileSystem struct {
	Host     string
	Port     int
	User     string
	Password string
	RootPath string
	client   *sftp.Client
	sshConn  *ssh.Client
}

func (s *SFTPFileSystem) Init() error {
	config := &ssh.ClientConfig{
		User: s.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(s.Password),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         30 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	conn, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return err
	}
	s.sshConn = conn

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return err
	}
	s.client = client
	return nil
}

func (s *SFTPFileSystem) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	if s.sshConn != nil {
		s.sshConn.Close()
	}
	return nil
}

func (s *SFTPFileSystem) abs(elems ...string) (string, error) {
	rel, err := cleanRel(elems...)
	if err != nil {
		return "", err
	}
	return path.Join(s.RootPath, rel), nil
}

func (s *SFTPFileSystem) List(ctx context.Context, dir string) ([]FileEntry, error) {
	fullPath, err := s.abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := s.client.ReadDir(fullPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	files := make([]FileEntry, 0, len(entries))
	for _, entry := range entries {
		isSymlink := entry.Mode()&os.ModeSymlink != 0
		isDir := entry.IsDir()
		if isSymlink {
			if target, err := s.client.Stat(path.Join(fullPath, entry.Name())); err == nil {
				isDir = target.IsDir()
			}
		}
		rel, _ := cleanRel(dir, entry.Name())
		files = append(files, FileEntry{
			Name:      entry.Name(),
			Size:      entry.Size(),
			ModTime:   entry.ModTime(),
			IsDir:     isDir,
			IsSymlink: isSymlink,
			Mode:      entry.Mode().String(),
			Path:      rel,
		})
	}
	return files, nil
}

func (s *SFTPFileSystem) Rename(ctx context.Context, dir string, pairs []resolver.Pair) error {
	return renameEach(ctx, pairs, func(from, to string) error {
		src, err := s.abs(dir, from)
		if err != nil {
			return err
		}
		dst, err := s.abs(dir, to)
		if err != nil {
			return err
		}
		if _, err := s.client.Lstat(src); errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		if err := s.client.MkdirAll(path.Dir(dst)); err != nil {
			return err
		}
		return s.client.Rename(src, dst)
	})
}
