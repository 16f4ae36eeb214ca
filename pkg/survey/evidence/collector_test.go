package evidence

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (s *stubFetcher) FetchFile(ctx context.Context, fileID string) ([]byte, error) {
	return s.data, s.err
}

type stubStore struct {
	path string
	data []byte
	err  error
}

func (s *stubStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.path = path
	s.data = data
	return "/uploads/" + path, nil
}

func TestCollectStoresUnderFolderPath(t *testing.T) {
	fetcher := &stubFetcher{data: []byte("jpeg-bytes")}
	store := &stubStore{}
	c := NewCollector(fetcher, store)
	c.now = func() time.Time { return time.Unix(0, 1700000000000000000) }

	ref, err := c.Collect(context.Background(), "SEGMENT UTARA/DES-AC-OF-SM-24", "file-1")
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	wantPath := "SEGMENT UTARA/DES-AC-OF-SM-24/evidence_1700000000000000000.jpg"
	if store.path != wantPath {
		t.Errorf("stored path = %q, want %q", store.path, wantPath)
	}
	if ref != "/uploads/"+wantPath {
		t.Errorf("ref = %q, want %q", ref, "/uploads/"+wantPath)
	}
	if string(store.data) != "jpeg-bytes" {
		t.Errorf("stored data = %q", store.data)
	}
}

func TestCollectPropagatesFetchError(t *testing.T) {
	c := NewCollector(&stubFetcher{err: errors.New("telegram down")}, &stubStore{})

	if _, err := c.Collect(context.Background(), "a/b", "file-1"); err == nil {
		t.Fatal("expected fetch error, got nil")
	}
}

func TestCollectPropagatesUploadError(t *testing.T) {
	c := NewCollector(&stubFetcher{data: []byte("x")}, &stubStore{err: errors.New("bucket gone")})

	if _, err := c.Collect(context.Background(), "a/b", "file-1"); err == nil {
		t.Fatal("expected upload error, got nil")
	}
}
