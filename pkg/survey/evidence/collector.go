package evidence

import (
	"context"
	"fmt"
	"time"

	"survey-bot-be/pkg/storage"
)

// MediaFetcher downloads the binary payload for a transport file reference.
type MediaFetcher interface {
	FetchFile(ctx context.Context, fileID string) ([]byte, error)
}

// Collector runs the photo pipeline: fetch from the transport's content
// store, upload to the evidence store, return the stored reference. A failure
// in either step leaves nothing to roll back; the caller simply reports it.
type Collector struct {
	fetcher MediaFetcher
	store   storage.Store
	now     func() time.Time
}

func NewCollector(fetcher MediaFetcher, store storage.Store) *Collector {
	return &Collector{
		fetcher: fetcher,
		store:   store,
		now:     time.Now,
	}
}

// Collect stores one photo under folderPath and returns its reference.
// Nanosecond timestamps keep paths unique for rapid consecutive photos.
func (c *Collector) Collect(ctx context.Context, folderPath, fileID string) (string, error) {
	data, err := c.fetcher.FetchFile(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch photo payload: %w", err)
	}

	path := fmt.Sprintf("%s/evidence_%d.jpg", folderPath, c.now().UnixNano())
	ref, err := c.store.Put(ctx, path, data, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload evidence: %w", err)
	}
	return ref, nil
}
