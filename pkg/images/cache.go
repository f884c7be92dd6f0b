package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cbodonnell/breedadventure/pkg/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// DefaultCacheSize is the number of decoded images kept in memory
	DefaultCacheSize = 64
	// DefaultBackgroundWorkers bounds concurrent background loads
	DefaultBackgroundWorkers = 4
	// MaxImageBytes caps a single fetched image
	MaxImageBytes = 8 << 20
)

// Fetcher loads the bytes behind an image reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// HTTPFetcher fetches remote images over HTTP.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", ref, res.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, MaxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ref, err)
	}
	return b, nil
}

// Cache is an LRU image cache with a blocklist of failed references.
type Cache struct {
	lock    sync.Mutex
	images  *lru.Cache[string, []byte]
	failed  map[string]error
	fetcher Fetcher
	workers chan struct{}
	logger  *log.Logger
}

type NewCacheOptions struct {
	Size              int
	BackgroundWorkers int
	Fetcher           Fetcher
	Logger            *log.Logger
}

func NewCache(opts NewCacheOptions) (*Cache, error) {
	if opts.Size <= 0 {
		opts.Size = DefaultCacheSize
	}
	if opts.BackgroundWorkers <= 0 {
		opts.BackgroundWorkers = DefaultBackgroundWorkers
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewHTTPFetcher(10 * time.Second)
	}
	if opts.Logger == nil {
		opts.Logger = log.With("images")
	}
	images, err := lru.New[string, []byte](opts.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %v", err)
	}
	return &Cache{
		images:  images,
		failed:  make(map[string]error),
		fetcher: opts.Fetcher,
		workers: make(chan struct{}, opts.BackgroundWorkers),
		logger:  opts.Logger,
	}, nil
}

// Load returns the cached bytes for ref, fetching them on a miss. Local refs
// are bundled and always ready.
func (c *Cache) Load(ctx context.Context, ref string) ([]byte, error) {
	if IsLocal(ref) {
		return nil, nil
	}

	c.lock.Lock()
	if b, ok := c.images.Get(ref); ok {
		c.lock.Unlock()
		return b, nil
	}
	if err, ok := c.failed[ref]; ok {
		c.lock.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrBlocked, err)
	}
	c.lock.Unlock()

	b, err := c.fetcher.Fetch(ctx, ref)

	c.lock.Lock()
	defer c.lock.Unlock()
	if err != nil {
		// a cancelled caller says nothing about the image itself
		if !errors.Is(err, context.Canceled) {
			c.failed[ref] = err
		}
		return nil, err
	}
	c.images.Add(ref, b)
	return b, nil
}

func (c *Cache) PreloadCritical(ctx context.Context, refs []string) error {
	failed := []string{}
	errs := []error{}
	for _, ref := range refs {
		if _, err := c.Load(ctx, ref); err != nil {
			failed = append(failed, ref)
			errs = append(errs, err)
		}
	}
	if len(failed) > 0 {
		return &FailedRefsError{Refs: failed, Cause: errors.Join(errs...)}
	}
	return nil
}

func (c *Cache) PreloadBackground(ctx context.Context, refs []string, report func(ref string, err error)) {
	for _, ref := range refs {
		go func(ref string) {
			select {
			case c.workers <- struct{}{}:
			case <-ctx.Done():
				if report != nil {
					report(ref, ctx.Err())
				}
				return
			}
			defer func() { <-c.workers }()

			_, err := c.Load(ctx, ref)
			if err != nil {
				c.logger.Debug("Background preload of %s failed: %v", ref, err)
			}
			if report != nil {
				report(ref, err)
			}
		}(ref)
	}
}

func (c *Cache) ResetFailedRefs() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.failed = make(map[string]error)
}

func (c *Cache) ClearCache() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.images.Purge()
}

// Contains reports whether ref is cached.
func (c *Cache) Contains(ref string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.images.Contains(ref)
}

// IsBlocked reports whether ref is on the failed blocklist.
func (c *Cache) IsBlocked(ref string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	_, ok := c.failed[ref]
	return ok
}
