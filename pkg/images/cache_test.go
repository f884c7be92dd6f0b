package images

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	lock   sync.Mutex
	calls  map[string]int
	broken map[string]bool
}

func newFakeFetcher(broken ...string) *fakeFetcher {
	f := &fakeFetcher{calls: map[string]int{}, broken: map[string]bool{}}
	for _, ref := range broken {
		f.broken[ref] = true
	}
	return f
}

func (f *fakeFetcher) Fetch(_ context.Context, ref string) ([]byte, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.calls[ref]++
	if f.broken[ref] {
		return nil, errors.New("connection refused")
	}
	return []byte(ref), nil
}

func (f *fakeFetcher) count(ref string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls[ref]
}

func TestCache_PreloadCritical(t *testing.T) {
	fetcher := newFakeFetcher("https://x/broken.jpg")
	c, err := NewCache(NewCacheOptions{Fetcher: fetcher})
	require.NoError(t, err)

	err = c.PreloadCritical(context.Background(), []string{"https://x/ok.jpg", "https://x/broken.jpg", "local://pug.jpg"})

	var failed *FailedRefsError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, []string{"https://x/broken.jpg"}, failed.Refs)
	assert.True(t, c.Contains("https://x/ok.jpg"))
	assert.True(t, c.IsBlocked("https://x/broken.jpg"))
	assert.Equal(t, 0, fetcher.count("local://pug.jpg"))
}

func TestCache_blocklistUntilReset(t *testing.T) {
	fetcher := newFakeFetcher("https://x/broken.jpg")
	c, err := NewCache(NewCacheOptions{Fetcher: fetcher})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Load(ctx, "https://x/broken.jpg")
	assert.Error(t, err)
	_, err = c.Load(ctx, "https://x/broken.jpg")
	assert.ErrorIs(t, err, ErrBlocked)
	assert.Equal(t, 1, fetcher.count("https://x/broken.jpg"))

	c.ResetFailedRefs()
	_, err = c.Load(ctx, "https://x/broken.jpg")
	assert.Error(t, err)
	assert.Equal(t, 2, fetcher.count("https://x/broken.jpg"))
}

func TestCache_ClearCache(t *testing.T) {
	fetcher := newFakeFetcher()
	c, err := NewCache(NewCacheOptions{Fetcher: fetcher})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Load(ctx, "https://x/a.jpg")
	require.NoError(t, err)
	_, err = c.Load(ctx, "https://x/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.count("https://x/a.jpg"))

	c.ClearCache()
	_, err = c.Load(ctx, "https://x/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.count("https://x/a.jpg"))
}

func TestCache_PreloadBackgroundReportsEveryRef(t *testing.T) {
	c, err := NewCache(NewCacheOptions{Fetcher: newFakeFetcher("https://x/b.jpg"), BackgroundWorkers: 1})
	require.NoError(t, err)

	var lock sync.Mutex
	results := map[string]error{}
	done := make(chan struct{}, 3)
	c.PreloadBackground(context.Background(), []string{"https://x/a.jpg", "https://x/b.jpg", "https://x/c.jpg"}, func(ref string, err error) {
		lock.Lock()
		results[ref] = err
		lock.Unlock()
		done <- struct{}{}
	})

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("background preload did not report")
		}
	}
	assert.NoError(t, results["https://x/a.jpg"])
	assert.Error(t, results["https://x/b.jpg"])
	assert.NoError(t, results["https://x/c.jpg"])
}

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("jpeg"))
	}))
	defer server.Close()

	f := NewHTTPFetcher(time.Second)
	b, err := f.Fetch(context.Background(), server.URL+"/pug.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), b)

	_, err = f.Fetch(context.Background(), server.URL+"/missing.jpg")
	assert.Error(t, err)
}
