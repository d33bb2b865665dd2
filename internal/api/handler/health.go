package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "typesanitizer/pkg/http"
	"typesanitizer/pkg/logger"
	"typesanitizer/pkg/sanitizer"
)

type HealthResponse struct {
	Status string `json:"status"`
	Types  int    `json:"types"`
}

type HealthHandler struct {
	registry *sanitizer.Registry
	log      *logger.Logger
}

func NewHealthHandler(registry *sanitizer.Registry, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		registry: registry,
		log:      log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Types:  len(h.registry.Names()),
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
}
