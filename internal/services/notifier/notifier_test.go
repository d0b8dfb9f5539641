package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type TransportMock struct{ mock.Mock }

func (m *TransportMock) SendMessage(ctx context.Context, token, chatID, text string) error {
	return m.Called(ctx, token, chatID, text).Error(0)
}

type SettingsMock struct{ mock.Mock }

func (m *SettingsMock) GetString(ctx context.Context, key, def string) string {
	args := m.Called(ctx, key, def)
	return args.String(0)
}

func NewNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestNotifier_Send(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(transport *TransportMock, settings *SettingsMock)
		token       string
		chatID      string
		wantOK      bool
		wantMessage string
	}{
		{
			name: "explicit credentials",
			setupMocks: func(transport *TransportMock, settings *SettingsMock) {
				transport.On("SendMessage", mock.Anything, "tok", "chat", "hello").Return(nil).Once()
			},
			token:  "tok",
			chatID: "chat",
			wantOK: true,
		},
		{
			name: "credentials from settings",
			setupMocks: func(transport *TransportMock, settings *SettingsMock) {
				settings.On("GetString", mock.Anything, "notification_token", "").Return("stored-tok").Once()
				settings.On("GetString", mock.Anything, "notification_destination", "").Return("stored-chat").Once()
				transport.On("SendMessage", mock.Anything, "stored-tok", "stored-chat", "hello").Return(nil).Once()
			},
			wantOK: true,
		},
		{
			name: "no credentials anywhere",
			setupMocks: func(transport *TransportMock, settings *SettingsMock) {
				settings.On("GetString", mock.Anything, "notification_token", "").Return("").Once()
				settings.On("GetString", mock.Anything, "notification_destination", "").Return("").Once()
			},
			wantOK:      false,
			wantMessage: "notification token or destination is not configured",
		},
		{
			name: "transport failure",
			setupMocks: func(transport *TransportMock, settings *SettingsMock) {
				transport.On("SendMessage", mock.Anything, "tok", "chat", "hello").
					Return(errors.New("telegram: 401 Unauthorized")).Once()
			},
			token:       "tok",
			chatID:      "chat",
			wantOK:      false,
			wantMessage: "telegram: 401 Unauthorized",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(TransportMock)
			settings := new(SettingsMock)
			tt.setupMocks(transport, settings)

			ok, msg := NewService(transport, settings, NewNoopLogger()).
				Send(context.Background(), "hello", tt.token, tt.chatID)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMessage, msg)

			transport.AssertExpectations(t)
			settings.AssertExpectations(t)
		})
	}

	// Без учётных данных сетевой транспорт не вызывается вообще.
	t.Run("no network call without credentials", func(t *testing.T) {
		transport := new(TransportMock)
		settings := new(SettingsMock)
		settings.On("GetString", mock.Anything, mock.Anything, "").Return("")

		NewService(transport, settings, NewNoopLogger()).Send(context.Background(), "hello", "", "")
		transport.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
