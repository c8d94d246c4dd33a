package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/app/service"
	"github.com/atinyakov/tinyurl/internal/models"
)

type PostHandler struct {
	baseURL string
	service service.URLServiceIface
	logger  *zap.Logger
}

func NewPost(baseURL string, s service.URLServiceIface, l *zap.Logger) *PostHandler {
	return &PostHandler{
		baseURL: baseURL,
		service: s,
		logger:  l,
	}
}

// Create handles POST /api/urls with a {"long_url": ...} body.
func (h *PostHandler) Create(res http.ResponseWriter, req *http.Request) {
	var request models.CreateRequest

	err := decodeJSONBody(res, req, &request)
	if err != nil {
		var mr *malformedRequest
		if errors.As(err, &mr) {
			writeError(res, mr.status, mr.msg)
			return
		}
		h.logger.Error("decode body failed", zap.Error(err))
		writeError(res, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), requestTimeout)
	defer cancel()

	r, err := h.service.CreateURLRecord(ctx, request.LongURL)
	if err != nil {
		writeServiceError(res, h.logger, err)
		return
	}

	h.logger.Info("short url created", zap.String("code", r.ShortCode))
	writeJSON(res, http.StatusCreated, toResponse(h.baseURL, r))
}
