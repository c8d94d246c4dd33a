package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/app/service"
	"github.com/atinyakov/tinyurl/internal/storage"
)

type PatchHandler struct {
	baseURL string
	service service.URLServiceIface
	logger  *zap.Logger
}

func NewPatch(baseURL string, s service.URLServiceIface, l *zap.Logger) *PatchHandler {
	return &PatchHandler{
		baseURL: baseURL,
		service: s,
		logger:  l,
	}
}

func (h *PatchHandler) Activate(res http.ResponseWriter, req *http.Request) {
	h.toggle(res, req, h.service.ActivateURL)
}

func (h *PatchHandler) Deactivate(res http.ResponseWriter, req *http.Request) {
	h.toggle(res, req, h.service.DeactivateURL)
}

func (h *PatchHandler) toggle(res http.ResponseWriter, req *http.Request, apply func(context.Context, string) (*storage.URLRecord, error)) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	code := chi.URLParam(req, "code")
	r, err := apply(ctx, code)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	h.logger.Info("short url toggled", zap.String("code", code), zap.Bool("active", r.Active))
	writeJSON(res, http.StatusOK, toResponse(h.baseURL, r))
}
