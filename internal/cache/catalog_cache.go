package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GTDGit/productdash_api/internal/models"
)

// Snapshot is a cached catalog: the products in file form plus the blob sha
// they were read at.
type Snapshot struct {
	Products []byte
	SHA      string
	CachedAt time.Time
}

// SnapshotStore persists snapshots by key. RedisClient implements it.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, key string, snap Snapshot, ttl time.Duration) error
	LoadSnapshot(ctx context.Context, key string) (Snapshot, error)
	DeleteSnapshot(ctx context.Context, key string) error
}

// CatalogCache stores the last known catalog snapshot for read requests.
// Writes never read from it; they always go to GitHub for a fresh sha.
type CatalogCache struct {
	store SnapshotStore
	key   string
	ttl   time.Duration
	now   func() time.Time
}

// NewCatalogCache creates a CatalogCache. The key is derived from the
// repository, branch and file path so several catalogs can share one Redis.
func NewCatalogCache(store SnapshotStore, repo, branch, path string, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		store: store,
		key:   fmt.Sprintf("catalog:%s:%s:%s", repo, branch, path),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Key returns the Redis key used for the snapshot.
func (c *CatalogCache) Key() string {
	return c.key
}

// Get returns the cached catalog. A miss is reported as ErrCacheMiss.
func (c *CatalogCache) Get(ctx context.Context) (*models.Catalog, error) {
	snap, err := c.store.LoadSnapshot(ctx, c.key)
	if err != nil {
		return nil, err
	}

	products, err := models.DecodeStoredProducts(snap.Products)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog snapshot: %w", err)
	}
	return &models.Catalog{Products: products, SHA: snap.SHA}, nil
}

// Set stores the catalog snapshot with the configured TTL.
func (c *CatalogCache) Set(ctx context.Context, catalog *models.Catalog) error {
	products := catalog.Products
	if products == nil {
		products = []models.Product{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}

	snap := Snapshot{Products: data, SHA: catalog.SHA, CachedAt: c.now()}
	if err := c.store.SaveSnapshot(ctx, c.key, snap, c.ttl); err != nil {
		return fmt.Errorf("failed to save catalog snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the cached snapshot.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.store.DeleteSnapshot(ctx, c.key)
}
