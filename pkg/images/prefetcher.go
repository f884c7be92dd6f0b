package images

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// LocalScheme prefixes images bundled with the client. They never hit the network.
const LocalScheme = "local://"

// ErrBlocked is returned for a reference that failed before and has not
// been reset.
var ErrBlocked = errors.New("image reference is blocked after a failed load")

// Prefetcher warms the client image cache ahead of display.
type Prefetcher interface {
	// PreloadCritical blocks until every ref is ready or has failed. A
	// partial failure is reported as a *FailedRefsError.
	PreloadCritical(ctx context.Context, refs []string) error
	// PreloadBackground returns immediately. report is called once per ref,
	// from any goroutine, with the load result.
	PreloadBackground(ctx context.Context, refs []string, report func(ref string, err error))
	// ResetFailedRefs clears the blocklist so failed refs can be retried.
	ResetFailedRefs()
	ClearCache()
}

// FailedRefsError lists the references a preload could not load.
type FailedRefsError struct {
	Refs  []string
	Cause error
}

func (e *FailedRefsError) Error() string {
	return fmt.Sprintf("failed to load %d image(s) [%s]: %v", len(e.Refs), strings.Join(e.Refs, ", "), e.Cause)
}

func (e *FailedRefsError) Unwrap() error {
	return e.Cause
}

func IsLocal(ref string) bool {
	return strings.HasPrefix(ref, LocalScheme)
}
