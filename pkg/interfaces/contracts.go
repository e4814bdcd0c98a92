package interfaces

import (
	"context"
	"time"
)

// DataSource is a single external provider of canonical datasets
type DataSource interface {
	// Name returns the source identifier used in logs and stats
	Name() string

	// Enabled reports whether the source is configured for use
	Enabled() bool

	// AllowFallback reports whether a failure of this source may fall
	// through to the next source in the chain
	AllowFallback() bool

	// Fetch retrieves and maps the source's data into a canonical dataset
	Fetch(ctx context.Context) (*Dataset, error)
}

// CacheStats describes the current contents of a dataset cache
type CacheStats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// DatasetCache is a TTL-bounded store of validated canonical datasets.
// Entries are immutable once stored; Set fully replaces an entry.
type DatasetCache interface {
	// Get returns the dataset for key, or nil if absent or expired. An
	// expired entry is removed as a side effect of the read.
	Get(ctx context.Context, key string) (*Dataset, error)

	// Set unconditionally overwrites key, refreshing its write timestamp
	Set(ctx context.Context, key string, dataset *Dataset, ttl time.Duration) error

	// IsExpired reports expiry for key without evicting it
	IsExpired(ctx context.Context, key string) (bool, error)

	// Invalidate removes key
	Invalidate(ctx context.Context, key string) error

	// Clear removes every entry
	Clear(ctx context.Context) error

	// Stats returns introspection data
	Stats(ctx context.Context) (CacheStats, error)
}
