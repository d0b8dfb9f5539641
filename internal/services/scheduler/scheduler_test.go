package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type JobMock struct{ mock.Mock }

func (m *JobMock) Run(ctx context.Context) error {
	return m.Called(ctx).Error(0)
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

func TestParseNotifyTime(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantHour   int
		wantMinute int
	}{
		{"valid time", "18:30", 18, 30},
		{"midnight", "00:00", 0, 0},
		{"end of day", "23:59", 23, 59},
		{"no minutes", "7", 7, 0},
		{"empty string", "", 9, 0},
		{"garbage", "not a time", 9, 0},
		{"hour out of range", "25:30", 9, 30},
		{"minute out of range", "10:75", 10, 0},
		{"negative hour", "-1:15", 9, 15},
		{"spaces around", " 8 : 45 ", 8, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute := ParseNotifyTime(tt.value)
			assert.Equal(t, tt.wantHour, hour)
			assert.Equal(t, tt.wantMinute, minute)
		})
	}
}

func TestScheduler_Start_ArmsDailyTimer(t *testing.T) {
	job := new(JobMock)
	settings := new(SettingsMock)
	settings.On("GetString", mock.Anything, "notify_time", "09:00").Return("18:30").Once()

	s := New(job, settings, NewNoopLogger())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	next := s.NextRun()
	require.False(t, next.IsZero())
	assert.Equal(t, 18, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.True(t, next.After(time.Now()))

	settings.AssertExpectations(t)
}

func TestScheduler_Start_DefaultsOnMalformedTime(t *testing.T) {
	job := new(JobMock)
	settings := new(SettingsMock)
	settings.On("GetString", mock.Anything, "notify_time", "09:00").Return("oops").Once()

	s := New(job, settings, NewNoopLogger())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	next := s.NextRun()
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 0, next.Minute())
}

func TestScheduler_NextRun_BeforeStart(t *testing.T) {
	s := New(new(JobMock), new(SettingsMock), NewNoopLogger())
	assert.True(t, s.NextRun().IsZero())
}
