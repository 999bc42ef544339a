package protocols

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"panelfiles/logging"
	"panelfiles/resolver"
)

// PanelFileSystem talks to the client API of a Pterodactyl-style panel.
// Paths are relative to the server's container root.
type PanelFileSystem struct {
	BaseURL  string
	ServerID string
	APIKey   string
	Timeout  time.Duration

	httpClient *http.Client
}

// APIError is an error response from the panel.
type APIError struct {
	Status int
	Code   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("panel returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("panel returned %d", e.Status)
}

type panelErrorBody struct {
	Errors []struct {
		Code   string `json:"code"`
		Status string `json:"status"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

type panelFileObject struct {
	Object     string `json:"object"`
	Attributes struct {
		Name       string    `json:"name"`
		Mode       string    `json:"mode"`
		Size       int64     `json:"size"`
		IsFile     bool      `json:"is_file"`
		IsSymlink  bool      `json:"is_symlink"`
		Mimetype   string    `json:"mimetype"`
		ModifiedAt time.Time `json:"modified_at"`
	} `json:"attributes"`
}

type panelListResponse struct {
	Object string            `json:"object"`
	Data   []panelFileObject `json:"data"`
}

type panelRenameRequest struct {
	Root  string          `json:"root"`
	Files []resolver.Pair `json:"files"`
}

func (p *PanelFileSystem) Init() error {
	if p.BaseURL == "" || p.ServerID == "" {
		return fmt.Errorf("panel url and server id are required")
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
	p.BaseURL = strings.TrimRight(p.BaseURL, "/")
	p.httpClient = &http.Client{
		Timeout: p.Timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()
	return p.do(ctx, http.MethodGet, p.serverURL(""), nil, nil)
}

func (p *PanelFileSystem) Close() error {
	if p.httpClient != nil {
		p.httpClient.CloseIdleConnections()
	}
	return nil
}

func (p *PanelFileSystem) serverURL(suffix string) string {
	return p.BaseURL + "/api/client/servers/" + url.PathEscape(p.ServerID) + suffix
}

func (p *PanelFileSystem) List(ctx context.Context, dir string) ([]FileEntry, error) {
	u := p.serverURL("/files/list?directory=" + url.QueryEscape(resolver.CleanDirectory(dir)))

	var resp panelListResponse
	if err := p.do(ctx, http.MethodGet, u, nil, &resp); err != nil {
		return nil, err
	}

	files := make([]FileEntry, 0, len(resp.Data))
	for _, obj := range resp.Data {
		a := obj.Attributes
		rel, _ := cleanRel(dir, a.Name)
		files = append(files, FileEntry{
			Name:      a.Name,
			Size:      a.Size,
			ModTime:   a.ModifiedAt,
			IsDir:     !a.IsFile,
			IsSymlink: a.IsSymlink,
			Mode:      a.Mode,
			Mimetype:  a.Mimetype,
			Path:      rel,
		})
	}
	return files, nil
}

// Rename sends the whole batch in one request. The panel does not say which
// pairs failed, so errors are reported for the batch as a whole.
func (p *PanelFileSystem) Rename(ctx context.Context, dir string, pairs []resolver.Pair) error {
	body := panelRenameRequest{Root: resolver.CleanDirectory(dir), Files: pairs}
	if body.Files == nil {
		body.Files = []resolver.Pair{}
	}
	return p.do(ctx, http.MethodPut, p.serverURL("/files/rename"), body, nil)
}

func (p *PanelFileSystem) do(ctx context.Context, method, u string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	start := time.Now()
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	logging.Debug("panel request",
		logging.String("method", method),
		logging.String("url", req.URL.Path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body panelErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
		apiErr.Code = body.Errors[0].Code
		apiErr.Detail = body.Errors[0].Detail
	}
	if resp.StatusCode == http.StatusNotFound && apiErr.Detail == "" {
		return fmt.Errorf("%w: %v", ErrNotFound, apiErr)
	}
	return apiErr
}
