package protocols

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelfiles/resolver"
)

func testPanel(t *testing.T, handler http.HandlerFunc) *PanelFileSystem {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/client/servers/abc123", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"server","attributes":{"identifier":"abc123"}}`))
	})
	mux.HandleFunc("/api/client/servers/abc123/files/", handler)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	p := &PanelFileSystem{BaseURL: ts.URL + "/", ServerID: "abc123", APIKey: "ptlc_key"}
	require.NoError(t, p.Init())
	t.Cleanup(func() { p.Close() })
	return p
}

func TestPanelList(t *testing.T) {
	var gotDir, gotAuth string
	p := testPanel(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/client/servers/abc123/files/list", r.URL.Path)
		gotDir = r.URL.Query().Get("directory")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[
			{"object":"file_object","attributes":{"name":"world","mode":"drwxr-xr-x","size":4096,"is_file":false,"is_symlink":false,"mimetype":"inode/directory","modified_at":"2020-07-02T21:10:34+00:00"}},
			{"object":"file_object","attributes":{"name":"server.jar","mode":"-rw-r--r--","size":1024,"is_file":true,"is_symlink":true,"mimetype":"application/java-archive","modified_at":"2020-07-01T10:00:00+00:00"}}
		]}`))
	})

	entries, err := p.List(context.Background(), "//plugins")
	require.NoError(t, err)
	assert.Equal(t, "/plugins", gotDir)
	assert.Equal(t, "Bearer ptlc_key", gotAuth)

	require.Len(t, entries, 2)
	assert.Equal(t, "world", entries[0].Name)
	assert.True(t, entries[0].IsDir)
	assert.Equal(t, "plugins/world", entries[0].Path)
	assert.True(t, entries[1].IsFile())
	assert.True(t, entries[1].IsSymlink)
	assert.Equal(t, int64(1024), entries[1].Size)
	assert.Equal(t, "application/java-archive", entries[1].Mimetype)
	assert.Equal(t, 2020, entries[1].ModTime.Year())
}

func TestPanelRename(t *testing.T) {
	var got panelRenameRequest
	var method string
	p := testPanel(t, func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		require.Equal(t, "/api/client/servers/abc123/files/rename", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	plan := resolver.Classify("backups", []string{"a.txt", "b.txt"}, true)
	require.NoError(t, p.Rename(context.Background(), "/plugins", plan.Pairs))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/plugins", got.Root)
	assert.Equal(t, []resolver.Pair{
		{From: "a.txt", To: "backups/a.txt"},
		{From: "b.txt", To: "backups/b.txt"},
	}, got.Files)
}

func TestPanelRename_APIError(t *testing.T) {
	p := testPanel(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"code":"DaemonConnectionException","status":"400","detail":"A file or folder with that name already exists."}]}`))
	})

	err := p.Rename(context.Background(), "/", []resolver.Pair{{From: "a", To: "b"}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "DaemonConnectionException", apiErr.Code)
	assert.Contains(t, err.Error(), "already exists")
	assert.Nil(t, FailedPairs(err))
}

func TestPanelList_NotFound(t *testing.T) {
	p := testPanel(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := p.List(context.Background(), "/gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPanelInit_RequiresServer(t *testing.T) {
	p := &PanelFileSystem{BaseURL: "http://127.0.0.1:1"}
	assert.Error(t, p.Init())
}
