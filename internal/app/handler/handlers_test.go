package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/tinyurl/internal/app/service"
	"github.com/atinyakov/tinyurl/internal/mocks"
	"github.com/atinyakov/tinyurl/internal/models"
	"github.com/atinyakov/tinyurl/internal/storage"
)

const baseURL = "http://localhost:8080"

var createdAt = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) models.URLResponse {
	t.Helper()
	var view models.URLResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Detail
}

func TestPostHandler_Create(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		setup       func(m *mocks.MockURLServiceIface)
		wantStatus  int
	}{
		{
			name:        "created",
			contentType: "application/json",
			body:        `{"long_url":"https://example.com/a"}`,
			setup: func(m *mocks.MockURLServiceIface) {
				m.EXPECT().CreateURLRecord(gomock.Any(), "https://example.com/a").Return(&storage.URLRecord{
					ShortCode: "abc123", LongURL: "https://example.com/a", Active: true, CreatedAt: createdAt,
				}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:        "invalid url",
			contentType: "application/json",
			body:        `{"long_url":"not a url"}`,
			setup: func(m *mocks.MockURLServiceIface) {
				m.EXPECT().CreateURLRecord(gomock.Any(), "not a url").Return(nil, service.ErrInvalidURL)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"long_url":`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "unknown field",
			contentType: "application/json",
			body:        `{"url":"https://example.com"}`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "empty body",
			contentType: "application/json",
			body:        ``,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "wrong content type",
			contentType: "text/plain",
			body:        `https://example.com`,
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "store failure",
			contentType: "application/json; charset=utf-8",
			body:        `{"long_url":"https://example.com/a"}`,
			setup: func(m *mocks.MockURLServiceIface) {
				m.EXPECT().CreateURLRecord(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockURLServiceIface(ctrl)
			if tt.setup != nil {
				tt.setup(svc)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			NewPost(baseURL, svc, zap.NewNop()).Create(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantStatus != http.StatusCreated {
				assert.NotEmpty(t, decodeDetail(t, rec))
				return
			}

			view := decodeView(t, rec)
			assert.Equal(t, "abc123", view.ShortCode)
			assert.Equal(t, baseURL+"/abc123", view.ShortURL)
			assert.Equal(t, "https://example.com/a", view.LongURL)
			assert.True(t, view.Active)
			assert.True(t, createdAt.Equal(view.CreatedAt))
			assert.Nil(t, view.UpdatedAt)
		})
	}
}

func TestGetHandler_ByCode(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockURLServiceIface(ctrl)
	h := NewGet(baseURL, svc, zap.NewNop())

	updated := createdAt.Add(time.Minute)
	svc.EXPECT().GetURLByCode(gomock.Any(), "abc123").Return(&storage.URLRecord{
		ShortCode: "abc123", LongURL: "https://example.com/a", Active: false, CreatedAt: createdAt, UpdatedAt: &updated,
	}, nil)
	svc.EXPECT().GetURLByCode(gomock.Any(), "nope00").Return(nil, service.ErrNotFound)

	rec := httptest.NewRecorder()
	h.ByCode(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/urls/abc123", nil), "code", "abc123"))

	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.False(t, view.Active)
	require.NotNil(t, view.UpdatedAt)
	assert.True(t, updated.Equal(*view.UpdatedAt))

	rec = httptest.NewRecorder()
	h.ByCode(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/api/urls/nope00", nil), "code", "nope00"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Short URL not found", decodeDetail(t, rec))
}

func TestGetHandler_Redirect(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		longURL    string
		err        error
		wantStatus int
	}{
		{name: "active", code: "abc123", longURL: "https://example.com/a", wantStatus: http.StatusTemporaryRedirect},
		{name: "missing or inactive", code: "nope00", err: service.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "store failure", code: "err000", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockURLServiceIface(ctrl)
			svc.EXPECT().ResolveURL(gomock.Any(), tt.code).Return(tt.longURL, tt.err)

			rec := httptest.NewRecorder()
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/"+tt.code, nil), "code", tt.code)
			NewGet(baseURL, svc, zap.NewNop()).Redirect(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.err == nil {
				assert.Equal(t, tt.longURL, rec.Header().Get("Location"))
			} else {
				assert.Empty(t, rec.Header().Get("Location"))
			}
		})
	}
}

func TestGetHandler_Ping(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockURLServiceIface(ctrl)
	h := NewGet(baseURL, svc, zap.NewNop())

	gomock.InOrder(
		svc.EXPECT().PingContext(gomock.Any()).Return(nil),
		svc.EXPECT().PingContext(gomock.Any()).Return(errors.New("db down")),
	)

	rec := httptest.NewRecorder()
	h.Ping(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Ping(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPatchHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockURLServiceIface(ctrl)
	h := NewPatch(baseURL, svc, zap.NewNop())
	updated := createdAt.Add(time.Hour)

	svc.EXPECT().DeactivateURL(gomock.Any(), "abc123").Return(&storage.URLRecord{
		ShortCode: "abc123", LongURL: "https://example.com/a", Active: false, CreatedAt: createdAt, UpdatedAt: &updated,
	}, nil)
	svc.EXPECT().ActivateURL(gomock.Any(), "abc123").Return(&storage.URLRecord{
		ShortCode: "abc123", LongURL: "https://example.com/a", Active: true, CreatedAt: createdAt, UpdatedAt: &updated,
	}, nil)
	svc.EXPECT().ActivateURL(gomock.Any(), "nope00").Return(nil, service.ErrNotFound)

	rec := httptest.NewRecorder()
	h.Deactivate(rec, withURLParam(httptest.NewRequest(http.MethodPatch, "/api/urls/abc123/deactivate", nil), "code", "abc123"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeView(t, rec).Active)

	rec = httptest.NewRecorder()
	h.Activate(rec, withURLParam(httptest.NewRequest(http.MethodPatch, "/api/urls/abc123/activate", nil), "code", "abc123"))
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.True(t, view.Active)
	assert.Equal(t, baseURL+"/abc123", view.ShortURL)

	rec = httptest.NewRecorder()
	h.Activate(rec, withURLParam(httptest.NewRequest(http.MethodPatch, "/api/urls/nope00/activate", nil), "code", "nope00"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockURLServiceIface(ctrl)
	h := NewDelete(svc, zap.NewNop())

	gomock.InOrder(
		svc.EXPECT().DeleteURL(gomock.Any(), "abc123").Return(nil),
		svc.EXPECT().DeleteURL(gomock.Any(), "abc123").Return(service.ErrNotFound),
	)

	rec := httptest.NewRecorder()
	h.Delete(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/urls/abc123", nil), "code", "abc123"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	h.Delete(rec, withURLParam(httptest.NewRequest(http.MethodDelete, "/api/urls/abc123", nil), "code", "abc123"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecodeJSONBody_TooLarge(t *testing.T) {
	body := `{"long_url":"https://example.com/` + strings.Repeat("a", 1<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/urls", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	var dst models.CreateRequest
	err := decodeJSONBody(rec, req, &dst)

	var mr *malformedRequest
	require.ErrorAs(t, err, &mr)
	assert.Equal(t, http.StatusRequestEntityTooLarge, mr.status)
}
