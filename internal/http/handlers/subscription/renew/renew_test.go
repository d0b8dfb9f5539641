package renew

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/subtracker/subtracker/internal/models"
	"github.com/subtracker/subtracker/internal/storage/repository"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Renew(ctx context.Context, id uuid.UUID) (*models.SubscriptionView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionView), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(handler *Handler, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/subscriptions/"+id+"/renew", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestRenewHandler_ServeHTTP(t *testing.T) {
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Renew", mock.Anything, id).Return(&models.SubscriptionView{
			ID:         id,
			Name:       "Netflix",
			ExpireDate: "2026-04-09",
			Status:     models.StatusActive,
		}, nil).Once()

		rec := doRequest(New(newNoopLogger(), svc), id.String())
		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		data := got["data"].(map[string]any)
		assert.Equal(t, "2026-04-09", data["expire_date"])

		svc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := new(ServiceMock)
		rec := doRequest(New(newNoopLogger(), svc), "not-a-uuid")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Renew", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Renew", mock.Anything, id).
			Return(nil, repository.ErrSubscriptionNotFound).Once()

		rec := doRequest(New(newNoopLogger(), svc), id.String())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Renew", mock.Anything, id).
			Return(nil, errors.New("db down")).Once()

		rec := doRequest(New(newNoopLogger(), svc), id.String())
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
