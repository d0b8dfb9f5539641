package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/subtracker/subtracker/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Create(ctx context.Context, req models.DummySubscription) (*models.SubscriptionView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionView), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	validReq := models.DummySubscription{
		Name:       "Netflix",
		Cost:       45,
		ExpireDate: "2026-12-01",
	}
	view := &models.SubscriptionView{
		ID:         uuid.New(),
		Name:       "Netflix",
		Cost:       45,
		Currency:   "CNY",
		ExpireDate: "2026-12-01",
		Status:     models.StatusActive,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockView       *models.SubscriptionView
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
	}{
		{
			name:           "valid create",
			requestBody:    validReq,
			mockView:       view,
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - missing name",
			requestBody:    models.DummySubscription{ExpireDate: "2026-12-01"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field Name is a required field",
		},
		{
			name:           "validation error - bad date",
			requestBody:    models.DummySubscription{Name: "Netflix", ExpireDate: "01-12-2026"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantStatus:     "Error",
			wantError:      "field ExpireDate can contain only date in format 2006-01-02",
		},
		{
			name:           "service error",
			requestBody:    validReq,
			mockErr:        errors.New("db down"),
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "Error",
			wantError:      "could not create subscription",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			handler := New(newNoopLogger(), svc)

			if tt.mockView != nil || tt.mockErr != nil {
				svc.On("Create", mock.Anything, tt.requestBody.(models.DummySubscription)).
					Return(tt.mockView, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.mockView != nil {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "Netflix", data["name"])
				assert.Equal(t, models.StatusActive, data["status"])
			}

			svc.AssertExpectations(t)
		})
	}
}
