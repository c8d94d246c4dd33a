package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/app/service"
)

type DeleteHandler struct {
	service service.URLServiceIface
	logger  *zap.Logger
}

func NewDelete(s service.URLServiceIface, l *zap.Logger) *DeleteHandler {
	return &DeleteHandler{
		service: s,
		logger:  l,
	}
}

// Delete removes the record for good; a second call answers 404.
func (h *DeleteHandler) Delete(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	code := chi.URLParam(req, "code")
	if err := h.service.DeleteURL(ctx, code); err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	h.logger.Info("short url deleted", zap.String("code", code))
	res.WriteHeader(http.StatusNoContent)
}
