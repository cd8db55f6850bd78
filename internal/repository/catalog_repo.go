package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/productdash_api/internal/config"
	"github.com/GTDGit/productdash_api/internal/models"
	"github.com/GTDGit/productdash_api/pkg/github"
)

// CatalogRepository reads and writes the catalog file through the GitHub
// contents API. The file path and branch come from configuration.
type CatalogRepository struct {
	client *github.Client
	path   string
	branch string
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(client *github.Client, cfg *config.GitHubConfig) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		path:   cfg.FilePath,
		branch: cfg.Branch,
	}
}

// Fetch returns the current catalog and its blob sha. A missing file or an
// empty file yields an empty catalog with no sha.
func (r *CatalogRepository) Fetch(ctx context.Context) (*models.Catalog, error) {
	file, err := r.client.GetFile(ctx, r.path, r.branch)
	if err != nil {
		if github.IsNotFound(err) {
			log.Debug().Str("path", r.path).Str("branch", r.branch).Msg("catalog file not found, using empty catalog")
			return &models.Catalog{Products: []models.Product{}}, nil
		}
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	data, err := file.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	products, err := decodeProducts(data)
	if err != nil {
		return nil, err
	}
	return &models.Catalog{Products: products, SHA: file.SHA}, nil
}

// Write replaces the catalog file content with products. sha must be the
// value returned by the preceding Fetch; it is omitted for the first write.
func (r *CatalogRepository) Write(ctx context.Context, products []models.Product, message, sha string) (*models.Catalog, error) {
	if products == nil {
		products = []models.Product{}
	}
	content, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}

	resp, err := r.client.PutFile(ctx, r.path, &github.PutFileRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  r.branch,
		SHA:     sha,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write catalog: %w", err)
	}

	log.Info().
		Str("path", r.path).
		Str("branch", r.branch).
		Str("commit", resp.Commit.SHA).
		Int("products", len(products)).
		Msg(message)

	return &models.Catalog{Products: products, SHA: resp.Content.SHA}, nil
}

func decodeProducts(data []byte) ([]models.Product, error) {
	products, err := models.DecodeStoredProducts(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	return products, nil
}
