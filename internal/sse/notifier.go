package sse

import (
	"time"

	"github.com/GTDGit/productdash_api/internal/models"
)

// CatalogNotifier is the interface services use to emit catalog change events.
type CatalogNotifier interface {
	NotifyProductChanged(event EventType, product *models.Product, catalog *models.Catalog)
}

// HubNotifier implements CatalogNotifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

// NotifyProductChanged publishes the change even with no client connected,
// so reconnecting clients can replay it.
func (n *HubNotifier) NotifyProductChanged(event EventType, product *models.Product, catalog *models.Catalog) {
	n.hub.Publish(&ProductEvent{
		Event:     event,
		ProductID: product.ID,
		Nama:      product.NamaValue(),
		SHA:       catalog.SHA,
		Total:     len(catalog.Products),
		Timestamp: time.Now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (n *NopNotifier) NotifyProductChanged(event EventType, product *models.Product, catalog *models.Catalog) {
}
