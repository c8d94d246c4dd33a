package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/app/service"
)

type GetHandler struct {
	baseURL string
	service service.URLServiceIface
	logger  *zap.Logger
}

func NewGet(baseURL string, s service.URLServiceIface, l *zap.Logger) *GetHandler {
	return &GetHandler{
		baseURL: baseURL,
		service: s,
		logger:  l,
	}
}

// ByCode returns the full record view, bypassing the cache.
func (h *GetHandler) ByCode(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	r, err := h.service.GetURLByCode(ctx, chi.URLParam(req, "code"))
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	writeJSON(res, http.StatusOK, toResponse(h.baseURL, r))
}

// Redirect handles GET /{code} for active URLs.
func (h *GetHandler) Redirect(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	code := chi.URLParam(req, "code")
	h.logger.Debug("Got code from request params", zap.String("code", code))

	longURL, err := h.service.ResolveURL(ctx, code)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	res.Header().Set("Location", longURL)
	res.WriteHeader(http.StatusTemporaryRedirect)
}

func (h *GetHandler) Ping(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	if err := h.service.PingContext(ctx); err != nil {
		h.logger.Error("ping failed", zap.Error(err))
		writeError(res, http.StatusInternalServerError, "store unavailable")
		return
	}

	res.WriteHeader(http.StatusOK)
}
