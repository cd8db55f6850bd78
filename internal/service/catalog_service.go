package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/productdash_api/internal/cache"
	"github.com/GTDGit/productdash_api/internal/models"
	"github.com/GTDGit/productdash_api/internal/sse"
	"github.com/GTDGit/productdash_api/internal/utils"
	"github.com/GTDGit/productdash_api/pkg/github"
)

// maxIDAttempts bounds id regeneration when a generated id is already taken.
const maxIDAttempts = 5

// CatalogStore reads and writes the whole catalog file.
type CatalogStore interface {
	Fetch(ctx context.Context) (*models.Catalog, error)
	Write(ctx context.Context, products []models.Product, message, sha string) (*models.Catalog, error)
}

// CatalogCache holds the last known catalog for read requests.
type CatalogCache interface {
	Get(ctx context.Context) (*models.Catalog, error)
	Set(ctx context.Context, catalog *models.Catalog) error
	Invalidate(ctx context.Context) error
}

// SnapshotArchiver keeps a copy of every written catalog.
type SnapshotArchiver interface {
	Archive(ctx context.Context, catalog *models.Catalog) error
}

// CatalogService implements list/create/update/delete on the catalog file.
// Every mutation is a single fetch, modify, write round trip guarded by the
// file sha; a concurrent writer makes the write fail rather than retry.
type CatalogService struct {
	store    CatalogStore
	cache    CatalogCache
	archiver SnapshotArchiver
	notifier sse.CatalogNotifier
	newID    func() (string, error)
}

// NewCatalogService constructs a CatalogService backed by store.
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{
		store:    store,
		notifier: &sse.NopNotifier{},
		newID: func() (string, error) {
			return utils.GenerateProductID(time.Now())
		},
	}
}

// SetCache enables serving reads from a catalog snapshot cache.
func (s *CatalogService) SetCache(cache CatalogCache) {
	s.cache = cache
}

// SetArchiver enables archiving every written catalog.
func (s *CatalogService) SetArchiver(archiver SnapshotArchiver) {
	s.archiver = archiver
}

// SetNotifier sets the receiver of catalog change events.
func (s *CatalogService) SetNotifier(notifier sse.CatalogNotifier) {
	s.notifier = notifier
}

// ProductURL builds the public product URL for the serving host.
func ProductURL(host, id string) string {
	return fmt.Sprintf("https://%s/product/%s", host, id)
}

// ListProducts returns every product. Products stored without a url get one
// derived from host in the returned copy only.
func (s *CatalogService) ListProducts(ctx context.Context, host string) ([]models.Product, error) {
	catalog, err := s.readCatalog(ctx)
	if err != nil {
		return nil, err
	}

	products := catalog.CloneProducts()
	for i := range products {
		if products[i].URL == "" {
			products[i].URL = ProductURL(host, products[i].ID)
		}
	}
	return products, nil
}

// CreateProduct validates input, fills defaults, assigns an id and url and
// appends the product to the catalog.
func (s *CatalogService) CreateProduct(ctx context.Context, host string, input models.Product) (*models.Product, error) {
	if errs := ValidateProduct(input, false); len(errs) > 0 {
		return nil, &ValidationError{Message: MsgInvalidProduct, Details: errs}
	}
	product := NormalizeProduct(input, true)

	catalog, err := s.store.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	id, err := s.uniqueID(catalog)
	if err != nil {
		return nil, err
	}
	product.ID = id
	product.URL = ProductURL(host, id)

	products := append(catalog.CloneProducts(), product)
	written, err := s.commit(ctx, products, "Tambah produk: "+product.NamaValue(), catalog.SHA)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyProductChanged(sse.EventProductCreated, &product, written)
	return &product, nil
}

// UpdateProduct merges patch onto the product with the given id. The id and
// url of the stored product never change.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch models.Product) (*models.Product, error) {
	catalog, err := s.store.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	idx := catalog.IndexOf(id)
	if idx == -1 {
		return nil, utils.ErrProductNotFound
	}

	if errs := ValidateProduct(patch, true); len(errs) > 0 {
		return nil, &ValidationError{Message: MsgInvalidProduct, Details: errs}
	}

	updated := NormalizeProduct(catalog.Products[idx].ApplyPatch(patch), false)

	// A patch may clear a required field, so the merged record is checked
	// as if it were new.
	if errs := ValidateProduct(updated, false); len(errs) > 0 {
		return nil, &ValidationError{Message: MsgInvalidAfterUpdate, Details: errs}
	}

	products := catalog.CloneProducts()
	products[idx] = updated
	written, err := s.commit(ctx, products, "Update produk: "+updated.NamaValue(), catalog.SHA)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyProductChanged(sse.EventProductUpdated, &updated, written)
	return &updated, nil
}

// DeleteProduct removes the product with the given id and returns it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	catalog, err := s.store.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	idx := catalog.IndexOf(id)
	if idx == -1 {
		return nil, utils.ErrProductNotFound
	}

	products := catalog.CloneProducts()
	deleted := products[idx]
	products = append(products[:idx], products[idx+1:]...)

	written, err := s.commit(ctx, products, "Hapus produk: "+deleted.NamaValue(), catalog.SHA)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyProductChanged(sse.EventProductDeleted, &deleted, written)
	return &deleted, nil
}

// RefreshCache reloads the cached snapshot from GitHub. It is a no-op when
// no cache is configured.
func (s *CatalogService) RefreshCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	catalog, err := s.store.Fetch(ctx)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, catalog)
}

// readCatalog serves reads from the cache when possible.
func (s *CatalogService) readCatalog(ctx context.Context) (*models.Catalog, error) {
	if s.cache != nil {
		catalog, err := s.cache.Get(ctx)
		if err == nil {
			return catalog, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn().Err(err).Msg("catalog cache read failed")
		}
	}

	catalog, err := s.store.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, catalog); err != nil {
			log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return catalog, nil
}

// commit writes products under sha and then updates the cache and archive.
// Cache and archive failures are logged and do not fail the request.
func (s *CatalogService) commit(ctx context.Context, products []models.Product, message, sha string) (*models.Catalog, error) {
	written, err := s.store.Write(ctx, products, message, sha)
	if err != nil {
		if github.IsConflict(err) {
			log.Warn().Err(err).Str("sha", sha).Msg("catalog changed concurrently, write rejected")
			if s.cache != nil {
				if cerr := s.cache.Invalidate(ctx); cerr != nil {
					log.Warn().Err(cerr).Msg("catalog cache invalidate failed")
				}
			}
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, written); err != nil {
			log.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, written); err != nil {
			log.Warn().Err(err).Str("sha", written.SHA).Msg("catalog snapshot archive failed")
		}
	}
	return written, nil
}

func (s *CatalogService) uniqueID(catalog *models.Catalog) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("failed to generate product id: %w", err)
		}
		if catalog.IndexOf(id) == -1 {
			return id, nil
		}
	}
	return "", utils.ErrDuplicateID
}
