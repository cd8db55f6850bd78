package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/productdash_api/internal/sse"
)

// streamRecorder adds the CloseNotifier that gin's Stream requires.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	return r.closed
}

func TestSSEHandler_ResumesFromLastEventID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := sse.NewHub()
	for _, id := range []string{"a", "b", "c"} {
		hub.Publish(&sse.ProductEvent{Event: sse.EventProductUpdated, ProductID: id})
	}

	r := gin.New()
	r.GET("/api/products/events", NewSSEHandler(hub).Stream)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/products/events", nil).WithContext(ctx)
	req.Header.Set("Last-Event-ID", "1")
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}

	r.ServeHTTP(w, req)

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event:connected\n")
	assert.NotContains(t, body, "id:1\n")
	assert.Contains(t, body, "id:2\nevent:product\n")
	assert.Contains(t, body, `"productId":"c"`)
	assert.NotContains(t, body, `"productId":"a"`)
	assert.Equal(t, 0, hub.ClientCount())
}
