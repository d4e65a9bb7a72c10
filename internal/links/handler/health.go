package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"

	httputil "clearlink/pkg/http"
	"clearlink/pkg/logger"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Rules    int    `json:"rules"`
	Database string `json:"database,omitempty"`
}

// HealthHandler serves liveness and readiness. The Mongo client is nil when
// rules come from a file; readiness then only reflects that the rule store
// was built.
type HealthHandler struct {
	mongoClient *mongo.Client
	ruleCount   int
	log         *logger.Logger
}

func NewHealthHandler(mongoClient *mongo.Client, ruleCount int, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		ruleCount:   ruleCount,
		log:         log,
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Rules:  h.ruleCount,
	})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.mongoClient == nil {
		httputil.WriteJSON(w, http.StatusOK, HealthResponse{
			Status: "ready",
			Rules:  h.ruleCount,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.mongoClient.Ping(ctx, nil); err != nil {
		h.log.Error("database health check failed", "error", err)
		httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Rules:    h.ruleCount,
			Database: "error",
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:   "ready",
		Rules:    h.ruleCount,
		Database: "ok",
	})
}
