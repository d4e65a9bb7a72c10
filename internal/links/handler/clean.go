package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"clearlink/internal/links/service"
	"clearlink/internal/links/validator"
	httputil "clearlink/pkg/http"
	"clearlink/pkg/logger"
	"clearlink/pkg/model"
)

type CleanHandler struct {
	service   service.LinkService
	validator *validator.CleanRequestValidator
	log       *logger.Logger
}

func NewCleanHandler(svc service.LinkService, v *validator.CleanRequestValidator, log *logger.Logger) *CleanHandler {
	return &CleanHandler{
		service:   svc,
		validator: v,
		log:       log,
	}
}

func (h *CleanHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/clean", h.Clean)
	router.POST("/api/v1/clean/batch", h.CleanBatch)
}

func (h *CleanHandler) Clean(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CleanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "invalid JSON body",
		})
		return
	}

	if err := h.validator.ValidateRequest(&req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.CleanOne(r.Context(), req.URL)
	if err != nil {
		h.log.Warn("clean failed", "url", req.URL, "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, result)
}

func (h *CleanHandler) CleanBatch(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BatchCleanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "invalid JSON body",
		})
		return
	}

	if err := h.validator.ValidateBatch(&req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	results := h.service.CleanBatch(r.Context(), req.URLs)
	httputil.WriteSuccess(w, results)
}
