package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelfiles/protocols"
)

// stallingLister holds the n-th List call until release is closed. The
// entries it returns are the ones the server had when the call arrived.
type stallingLister struct {
	server  *fakeServer
	stallOn int
	entered chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func newStallingLister(server *fakeServer, n int) *stallingLister {
	return &stallingLister{
		server:  server,
		stallOn: n,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (s *stallingLister) List(ctx context.Context, dir string) ([]protocols.FileEntry, error) {
	entries, err := s.server.List(ctx, dir)
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()
	if n == s.stallOn {
		close(s.entered)
		<-s.release
	}
	return entries, err
}

func TestListing_PatchAndReload(t *testing.T) {
	server := newFakeServer("/plugins", "a.jar", "b.jar")
	l := NewListing(server, "//plugins")
	assert.Equal(t, "/plugins", l.Directory())

	require.NoError(t, l.Reload(context.Background()))
	v := l.Version()

	assert.True(t, l.Rename("a.jar", "c.jar"))
	assert.Equal(t, []string{"c.jar", "b.jar"}, entryNames(l))
	assert.Equal(t, "plugins/c.jar", l.Entries()[0].Path)
	assert.True(t, l.Has("c.jar"))
	assert.Greater(t, l.Version(), v)

	assert.False(t, l.Rename("missing", "x"))
	assert.True(t, l.Remove("b.jar"))
	assert.False(t, l.Remove("b.jar"))
	assert.Equal(t, []string{"c.jar"}, entryNames(l))

	require.NoError(t, l.Reload(context.Background()))
	assert.Equal(t, []string{"a.jar", "b.jar"}, entryNames(l))
}

func TestListing_EntriesIsCopy(t *testing.T) {
	l := NewListing(newFakeServer("/", "a"), "/")
	require.NoError(t, l.Reload(context.Background()))

	entries := l.Entries()
	entries[0].Name = "mutated"
	assert.Equal(t, []string{"a"}, entryNames(l))
}

func TestListing_ReloadErrorKeepsCache(t *testing.T) {
	server := newFakeServer("/", "a")
	l := NewListing(server, "/")
	require.NoError(t, l.Reload(context.Background()))

	server.listErr = errors.New("offline")
	assert.Error(t, l.Reload(context.Background()))
	assert.Equal(t, []string{"a"}, entryNames(l))
}

func TestListing_SetDirectory(t *testing.T) {
	server := newFakeServer("/", "a")
	server.dirs["/world"] = []string{"level.dat"}
	l := NewListing(server, "/")
	require.NoError(t, l.Reload(context.Background()))

	l.SetDirectory("/world")
	assert.Empty(t, l.Entries())
	require.NoError(t, l.Reload(context.Background()))
	assert.Equal(t, []string{"level.dat"}, entryNames(l))
}

func TestListing_DropsSupersededReload(t *testing.T) {
	server := newFakeServer("/", "a")
	lister := newStallingLister(server, 1)
	l := NewListing(lister, "/")

	done := make(chan error, 1)
	go func() { done <- l.Reload(context.Background()) }()
	<-lister.entered

	l.Replace(nil)
	close(lister.release)
	require.NoError(t, <-done)
	assert.Empty(t, l.Entries())
}

func TestSelection_Toggle(t *testing.T) {
	var s Selection
	s.Toggle("a", true)
	s.Toggle("b", true)
	s.Toggle("a", true)
	assert.Equal(t, []string{"b", "a"}, s.Names())

	s.Toggle("b", false)
	assert.Equal(t, []string{"a"}, s.Names())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("b"))

	s.Clear()
	assert.Equal(t, 0, s.Len())
}
