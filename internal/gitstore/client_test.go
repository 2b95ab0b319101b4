package gitstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeStore imitates the contents API for one directory: GET on the
// directory lists entries, GET/PUT/DELETE on a file enforce the
// revision SHA the way the real store does.
type fakeStore struct {
	dir   string
	files map[string]fakeFile // name -> file
	puts  []writeRequest      // captured write bodies
}

type fakeFile struct {
	content []byte
	sha     string
}

func newFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	return &fakeStore{dir: "quizzes", files: make(map[string]fakeFile)}
}

func (f *fakeStore) handler() http.Handler {
	prefix := "/repos/owner/repo/contents/" + f.dir
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer token123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		name := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, prefix), "/")

		switch {
		case r.Method == http.MethodGet && name == "":
			entries := make([]map[string]any, 0, len(f.files))
			for n, file := range f.files {
				entries = append(entries, map[string]any{
					"name": n, "path": f.dir + "/" + n, "sha": file.sha, "size": len(file.content),
				})
			}
			json.NewEncoder(w).Encode(entries)

		case r.Method == http.MethodGet:
			file, ok := f.files[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			// Real payloads come base64-encoded with embedded newlines.
			enc := base64.StdEncoding.EncodeToString(file.content)
			var chunked strings.Builder
			for i := 0; i < len(enc); i += 60 {
				end := min(i+60, len(enc))
				chunked.WriteString(enc[i:end])
				chunked.WriteString("\n")
			}
			json.NewEncoder(w).Encode(map[string]any{
				"name": name, "path": f.dir + "/" + name, "sha": file.sha,
				"size": len(file.content), "content": chunked.String(), "encoding": "base64",
			})

		case r.Method == http.MethodPut:
			var req writeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.puts = append(f.puts, req)
			existing, exists := f.files[name]
			if exists && req.SHA != existing.sha {
				w.WriteHeader(http.StatusConflict)
				return
			}
			if !exists && req.SHA != "" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				return
			}
			content, err := base64.StdEncoding.DecodeString(req.Content)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.files[name] = fakeFile{content: content, sha: fmt.Sprintf("sha-%d", len(f.puts))}
			if exists {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusCreated)
			}
			json.NewEncoder(w).Encode(map[string]any{"content": map[string]any{"sha": f.files[name].sha}})

		case r.Method == http.MethodDelete:
			var req writeRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			existing, exists := f.files[name]
			if !exists {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			if req.SHA != existing.sha {
				w.WriteHeader(http.StatusConflict)
				return
			}
			delete(f.files, name)
			w.WriteHeader(http.StatusOK)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, "token123", "owner", "repo", "main", "quizzes")
}

func TestClient_PutNewFileOmitsSHA(t *testing.T) {
	store := newFakeStore(t)
	srv := httptest.NewServer(store.handler())
	defer srv.Close()
	c := newTestClient(srv)

	if err := c.Put(context.Background(), "paper.json", []byte(`{"questions":[]}`), "add paper"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(store.puts) != 1 {
		t.Fatalf("expected 1 write, got %d", len(store.puts))
	}
	if store.puts[0].SHA != "" {
		t.Errorf("create must not carry a SHA, got %q", store.puts[0].SHA)
	}
	if store.puts[0].Branch != "main" {
		t.Errorf("branch: got %q", store.puts[0].Branch)
	}
}

func TestClient_PutExistingFileCarriesSHA(t *testing.T) {
	store := newFakeStore(t)
	store.files["paper.json"] = fakeFile{content: []byte("old"), sha: "sha-old"}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()
	c := newTestClient(srv)

	if err := c.Put(context.Background(), "paper.json", []byte("new"), "update paper"); err != nil {
		t.Fatalf("put: %v", err)
	}
	last := store.puts[len(store.puts)-1]
	if last.SHA != "sha-old" {
		t.Errorf("update must carry the current SHA, got %q", last.SHA)
	}
	if string(store.files["paper.json"].content) != "new" {
		t.Errorf("content not updated: %q", store.files["paper.json"].content)
	}
}

func TestClient_PutConflict(t *testing.T) {
	// The revision moves between the client's stat and its write; the
	// store answers the stale-SHA write with 409.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{
				"name": "paper.json", "sha": "sha-stale", "content": "", "encoding": "base64",
			})
		case http.MethodPut:
			w.WriteHeader(http.StatusConflict)
		}
	}))
	defer srv.Close()
	c := newTestClient(srv)

	err := c.Put(context.Background(), "paper.json", []byte("new"), "update")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestClient_GetDecodesChunkedBase64(t *testing.T) {
	content := []byte(`{"questions":[{"id":1,"question":"q","options":["a","b","c","d"],"answer":"a"}]}`)
	store := newFakeStore(t)
	store.files["paper.json"] = fakeFile{content: content, sha: "sha-1"}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()
	c := newTestClient(srv)

	f, err := c.Get(context.Background(), "paper.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(f.Content) != string(content) {
		t.Errorf("content mismatch: %q", f.Content)
	}
	if f.SHA != "sha-1" {
		t.Errorf("sha: got %q", f.SHA)
	}
}

func TestClient_GetNotFound(t *testing.T) {
	store := newFakeStore(t)
	srv := httptest.NewServer(store.handler())
	defer srv.Close()
	c := newTestClient(srv)

	_, err := c.Get(context.Background(), "missing.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_ListFiltersJSON(t *testing.T) {
	store := newFakeStore(t)
	store.files["a.json"] = fakeFile{content: []byte("{}"), sha: "s1"}
	store.files["b.json"] = fakeFile{content: []byte("{}"), sha: "s2"}
	store.files["readme.md"] = fakeFile{content: []byte("#"), sha: "s3"}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()
	c := newTestClient(srv)

	infos, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 json papers, got %d", len(infos))
	}
	for _, fi := range infos {
		if !strings.HasSuffix(fi.Name, ".json") {
			t.Errorf("non-json entry leaked: %q", fi.Name)
		}
	}
}

func TestClient_ListEmptyDirectory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	c := newTestClient(srv)

	infos, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("expected empty listing, got %d entries", len(infos))
	}
}

func TestClient_DeleteCarriesSHA(t *testing.T) {
	store := newFakeStore(t)
	store.files["old.json"] = fakeFile{content: []byte("{}"), sha: "sha-del"}
	srv := httptest.NewServer(store.handler())
	defer srv.Close()
	c := newTestClient(srv)

	if err := c.Delete(context.Background(), "old.json", "remove paper"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.files["old.json"]; ok {
		t.Error("file still present after delete")
	}
}

func TestClient_DeleteMissing(t *testing.T) {
	store := newFakeStore(t)
	srv := httptest.NewServer(store.handler())
	defer srv.Close()
	c := newTestClient(srv)

	err := c.Delete(context.Background(), "ghost.json", "remove")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_ServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := newTestClient(srv)

	_, err := c.Get(context.Background(), "paper.json")
	var retry *RetryableError
	if !errors.As(err, &retry) {
		t.Fatalf("expected RetryableError, got %v", err)
	}
	if retry.StatusCode != http.StatusBadGateway {
		t.Errorf("status: got %d", retry.StatusCode)
	}
}
