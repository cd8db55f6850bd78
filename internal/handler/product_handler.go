package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/productdash_api/internal/models"
	"github.com/GTDGit/productdash_api/internal/service"
	"github.com/GTDGit/productdash_api/internal/utils"
	"github.com/GTDGit/productdash_api/pkg/github"
)

// Response messages returned by the product endpoint.
const (
	msgCreated          = "Produk berhasil ditambahkan"
	msgUpdated          = "Produk berhasil diperbarui"
	msgDeleted          = "Produk berhasil dihapus"
	msgMissingID        = "ID produk diperlukan sebagai query parameter"
	msgNotFound         = "Produk tidak ditemukan"
	msgInvalidJSON      = "Invalid JSON format in request body"
	msgMethodNotAllowed = "Method not allowed. Supported methods: GET, POST, PUT, DELETE"

	msgGitHubAuth      = "Authentication failed with GitHub - check GITHUB_TOKEN"
	msgGitHubRateLimit = "GitHub API rate limit exceeded"
	msgGitHubNotFound  = "Repository or file not found - check GITHUB_REPO and GITHUB_FILEPATH"
	msgNetwork         = "Network error"
	msgInternal        = "Internal server error"
	msgNoDetails       = "No additional details"
)

// ProductHandler serves the /api/products endpoint.
type ProductHandler struct {
	catalogService *service.CatalogService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// ListProducts handles GET /api/products and returns a bare JSON array.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.catalogService.ListProducts(c.Request.Context(), c.Request.Host)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct handles POST /api/products.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	input, ok := bindProduct(c)
	if !ok {
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), c.Request.Host, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Mutation(c, http.StatusCreated, msgCreated, product)
}

// UpdateProduct handles PUT /api/products?id=<id>.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		utils.Error(c, http.StatusBadRequest, msgMissingID)
		return
	}

	patch, ok := bindProduct(c)
	if !ok {
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Mutation(c, http.StatusOK, msgUpdated, product)
}

// DeleteProduct handles DELETE /api/products?id=<id>.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		utils.Error(c, http.StatusBadRequest, msgMissingID)
		return
	}

	product, err := h.catalogService.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	utils.Mutation(c, http.StatusOK, msgDeleted, product)
}

// MethodNotAllowed answers any verb the endpoint does not support.
func (h *ProductHandler) MethodNotAllowed(c *gin.Context) {
	utils.Error(c, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

// bindProduct decodes the request body into a product. It writes the 400
// response itself and reports false when the body is not a JSON object.
func bindProduct(c *gin.Context) (models.Product, bool) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		utils.ErrorWithDetails(c, http.StatusBadRequest, msgInvalidJSON, err.Error())
		return models.Product{}, false
	}
	return p, true
}

// respondError maps service and GitHub errors to HTTP responses.
func (h *ProductHandler) respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		utils.ErrorWithDetails(c, http.StatusBadRequest, validationErr.Message, validationErr.Details)
		return
	}

	if errors.Is(err, utils.ErrProductNotFound) {
		utils.Error(c, http.StatusNotFound, msgNotFound)
		return
	}

	log.Error().
		Err(err).
		Str("request_id", utils.RequestID(c)).
		Str("method", c.Request.Method).
		Msg("catalog request failed")

	var apiErr *github.APIError
	switch {
	case github.IsAuthFailure(err):
		utils.ErrorWithDetails(c, http.StatusInternalServerError, msgGitHubAuth, remoteDetails(err))
	case github.IsRateLimited(err):
		utils.ErrorWithDetails(c, http.StatusTooManyRequests, msgGitHubRateLimit, remoteDetails(err))
	case github.IsNotFound(err):
		utils.ErrorWithDetails(c, http.StatusNotFound, msgGitHubNotFound, remoteDetails(err))
	case github.IsConflict(err) && errors.As(err, &apiErr):
		utils.ErrorWithDetails(c, http.StatusConflict, apiErr.Message, remoteDetails(err))
	case github.IsNetwork(err):
		utils.ErrorWithDetails(c, http.StatusInternalServerError, msgNetwork, err.Error())
	case errors.As(err, &apiErr):
		utils.ErrorWithDetails(c, http.StatusInternalServerError, apiErr.Message, remoteDetails(err))
	default:
		utils.ErrorWithDetails(c, http.StatusInternalServerError, msgInternal, err.Error())
	}
}

func remoteDetails(err error) any {
	var apiErr *github.APIError
	if errors.As(err, &apiErr) && len(apiErr.Errors) > 0 {
		return apiErr.Errors
	}
	return msgNoDetails
}
