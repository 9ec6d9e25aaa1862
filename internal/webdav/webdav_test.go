package webdav

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchAttachmentArchive(t *testing.T) {
	payload := []byte("zip bytes")
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "alice", "secret")
	data, err := c.FetchAttachmentArchive(context.Background(), "ABCD1234")
	if err != nil {
		t.Fatalf("FetchAttachmentArchive failed: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("payload = %q, want %q", data, payload)
	}
	if gotPath != "/zotero/ABCD1234.zip" {
		t.Errorf("request path = %q, want /zotero/ABCD1234.zip", gotPath)
	}
}

func TestFetchAttachmentArchive_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "alice", "secret")
	_, err := c.FetchAttachmentArchive(context.Background(), "MISSING0")
	if err == nil {
		t.Fatal("FetchAttachmentArchive succeeded, want error")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", statusErr.StatusCode, http.StatusNotFound)
	}
}

func TestFetchAttachmentArchive_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, "alice", "secret")
	if _, err := c.FetchAttachmentArchive(context.Background(), "ABCD1234"); err == nil {
		t.Fatal("FetchAttachmentArchive succeeded against closed server, want error")
	}
}
