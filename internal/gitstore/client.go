package gitstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

var (
	// ErrNotFound means the requested path does not exist in the store.
	ErrNotFound = errors.New("gitstore: not found")

	// ErrConflict means the write lost an optimistic-concurrency race:
	// the content revision supplied (or omitted) no longer matches the
	// stored one.
	ErrConflict = errors.New("gitstore: revision conflict")
)

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Client publishes quiz papers to a versioned, path-addressed content
// store over the GitHub contents API. Every write against an existing
// path must carry that path's current content SHA; the API rejects
// stale or missing revisions, which Put surfaces as ErrConflict.
type Client struct {
	baseURL    string
	token      string
	owner      string
	repo       string
	branch     string
	dir        string
	httpClient *http.Client
}

func NewClient(baseURL, token, owner, repo, branch, dir string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if branch == "" {
		branch = "main"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		owner:   owner,
		repo:    repo,
		branch:  branch,
		dir:     strings.Trim(dir, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// File is one stored object with its current revision.
type File struct {
	Name    string
	Path    string
	SHA     string
	Size    int
	Content []byte
}

// FileInfo describes a stored object without its content.
type FileInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
	SHA  string `json:"sha"`
	Size int    `json:"size"`
}

type contentResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int    `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content,omitempty"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

// List returns the JSON papers currently in the store directory. A
// missing directory is an empty store, not an error.
func (c *Client) List(ctx context.Context) ([]FileInfo, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentURL("")+"?ref="+c.branch, nil)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return []FileInfo{}, nil
	}
	if err := checkStatus(resp, "list papers"); err != nil {
		return nil, err
	}

	var entries []FileInfo
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	papers := entries[:0]
	for _, e := range entries {
		if strings.HasSuffix(e.Name, ".json") {
			papers = append(papers, e)
		}
	}
	return papers, nil
}

// Get fetches one paper and decodes its payload.
func (c *Client) Get(ctx context.Context, name string) (*File, error) {
	cr, err := c.fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	content, err := decodePayload(cr.Content)
	if err != nil {
		return nil, fmt.Errorf("decode payload %s: %w", name, err)
	}
	return &File{
		Name:    cr.Name,
		Path:    cr.Path,
		SHA:     cr.SHA,
		Size:    cr.Size,
		Content: content,
	}, nil
}

// Put creates or updates a paper. For an existing path the current
// content SHA is fetched first and sent with the write; the store
// rejects the write when someone else updated the path in between.
func (c *Client) Put(ctx context.Context, name string, content []byte, message string) error {
	req := writeRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  c.branch,
	}
	cr, err := c.fetch(ctx, name)
	switch {
	case err == nil:
		req.SHA = cr.SHA
	case errors.Is(err, ErrNotFound):
		// New path: no revision to supply.
	default:
		return fmt.Errorf("stat %s: %w", name, err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal write: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, c.contentURL(name), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		return fmt.Errorf("put %s: %w", name, ErrConflict)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(resp, "put "+name)
	}
	return nil
}

// Delete removes a paper, supplying its current revision.
func (c *Client) Delete(ctx context.Context, name, message string) error {
	cr, err := c.fetch(ctx, name)
	if err != nil {
		return err
	}

	body, err := json.Marshal(writeRequest{
		Message: message,
		Branch:  c.branch,
		SHA:     cr.SHA,
	})
	if err != nil {
		return fmt.Errorf("marshal delete: %w", err)
	}
	resp, err := c.do(ctx, http.MethodDelete, c.contentURL(name), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("delete %s: %w", name, ErrConflict)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError(resp, "delete "+name)
	}
	return nil
}

// fetch retrieves the raw content response for one path.
func (c *Client) fetch(ctx context.Context, name string) (*contentResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, c.contentURL(name)+"?ref="+c.branch, nil)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("get %s: %w", name, ErrNotFound)
	}
	if err := checkStatus(resp, "get "+name); err != nil {
		return nil, err
	}

	var cr contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return &cr, nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient.Do(req)
}

func (c *Client) contentURL(name string) string {
	p := c.dir
	if name != "" {
		if p != "" {
			p += "/"
		}
		p += name
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.baseURL, c.owner, c.repo, p)
}

// checkStatus maps transient store failures to RetryableError and
// everything else non-OK to a plain error.
func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return nil
	}
	return statusError(resp, op)
}

func statusError(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{StatusCode: resp.StatusCode, Message: op + ": " + string(respBody)}
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, string(respBody))
}

// decodePayload handles the API's base64 content, which arrives with
// embedded newlines.
func decodePayload(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.TrimSpace(s)
	return base64.StdEncoding.DecodeString(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases any resources held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
