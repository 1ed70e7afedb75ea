package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/SaraLat04/Assistant-Juridique/utils"
	"github.com/SaraLat04/Assistant-Juridique/vectorstore"
)

// HealthResponse reports service readiness and corpus size.
type HealthResponse struct {
	Status         string `json:"status"`
	CollectionName string `json:"collection_name"`
	DocumentsCount int    `json:"documents_count"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	store  vectorstore.Store
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(store vectorstore.Store, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:  store,
		logger: logger,
	}
}

// HandleHealth handles GET /health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count(r.Context())
	if err != nil {
		h.logger.Warn("vector store unreachable", zap.Error(err))
		_ = utils.WriteServiceUnavailable(w, "vector store unreachable")
		return
	}

	_ = utils.WriteOK(w, HealthResponse{
		Status:         "ok",
		CollectionName: h.store.Collection(),
		DocumentsCount: count,
	})
}
