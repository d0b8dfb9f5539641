package update

import (
	"bytes"
	"context"
	"encoding/json"
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

func (m *ServiceMock) Update(ctx context.Context, id uuid.UUID, req models.DummySubscription) (*models.SubscriptionView, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionView), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(handler *Handler, id string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/subscriptions/"+id, bytes.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	id := uuid.New()
	validReq := models.DummySubscription{
		Name:       "Netflix",
		Cost:       55,
		ExpireDate: "2027-01-01",
	}
	validBody, _ := json.Marshal(validReq)

	t.Run("success", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Update", mock.Anything, id, validReq).Return(&models.SubscriptionView{
			ID:         id,
			Name:       "Netflix",
			Cost:       55,
			ExpireDate: "2027-01-01",
			Status:     models.StatusActive,
		}, nil).Once()

		rec := doRequest(New(newNoopLogger(), svc), id.String(), validBody)
		assert.Equal(t, http.StatusOK, rec.Code)

		var got map[string]any
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
		assert.Equal(t, "OK", got["status"])

		svc.AssertExpectations(t)
	})

	t.Run("invalid json", func(t *testing.T) {
		svc := new(ServiceMock)
		rec := doRequest(New(newNoopLogger(), svc), id.String(), []byte("not a json"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation error", func(t *testing.T) {
		body, _ := json.Marshal(models.DummySubscription{Name: "Netflix"})
		svc := new(ServiceMock)
		rec := doRequest(New(newNoopLogger(), svc), id.String(), body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Update", mock.Anything, id, validReq).
			Return(nil, repository.ErrSubscriptionNotFound).Once()

		rec := doRequest(New(newNoopLogger(), svc), id.String(), validBody)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
