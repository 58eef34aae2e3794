package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mhollins/dutyroster/pkg/db"
)

type mockGenerateShiftsStore struct {
	insertedShifts  []db.Shift
	insertShiftsErr error
}

func (m *mockGenerateShiftsStore) InsertShifts(ctx context.Context, shifts []db.Shift) error {
	if m.insertShiftsErr != nil {
		return m.insertShiftsErr
	}
	m.insertedShifts = append(m.insertedShifts, shifts...)
	return nil
}

func TestGenerateShifts_SavesRecords(t *testing.T) {
	store := &mockGenerateShiftsStore{}
	cfg := testConfig()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	result, err := GenerateShifts(context.Background(), store, cfg, zap.NewNop(), "single-day", start, end, false)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Saved)
	assert.Len(t, result.Shifts, 3)
	require.Len(t, store.insertedShifts, 3)
	for _, s := range store.insertedShifts {
		assert.Equal(t, "ward-3", s.DepartmentID)
		assert.Equal(t, "09:00", s.StartTime)
		assert.Equal(t, "17:00", s.EndTime)
		assert.Equal(t, 2, s.Required)
		assert.Equal(t, 0, s.Assigned)
	}
}

func TestGenerateShifts_DryRun(t *testing.T) {
	store := &mockGenerateShiftsStore{}
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	result, err := GenerateShifts(context.Background(), store, testConfig(), zap.NewNop(), "single-day", start, start, true)
	require.NoError(t, err)

	assert.False(t, result.Saved)
	assert.Len(t, result.Shifts, 1)
	assert.Empty(t, store.insertedShifts, "Shifts should not be saved in dry-run mode")
}

func TestGenerateShifts_BuiltinTemplateFallback(t *testing.T) {
	store := &mockGenerateShiftsStore{}
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) // Monday

	result, err := GenerateShifts(context.Background(), store, testConfig(), zap.NewNop(), "standard", start, start, true)
	require.NoError(t, err)

	// Built-in standard template: day and night entries on one weekday
	assert.Len(t, result.Shifts, 2)
}

func TestGenerateShifts_UnknownTemplate(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	result, err := GenerateShifts(context.Background(), &mockGenerateShiftsStore{}, testConfig(), zap.NewNop(), "nope", start, start, false)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "unknown shift template")
}

func TestGenerateShifts_InvalidRange(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	result, err := GenerateShifts(context.Background(), &mockGenerateShiftsStore{}, testConfig(), zap.NewNop(), "single-day", start, start.AddDate(0, 0, -1), false)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to generate shifts")
}

func TestGenerateShifts_SaveError(t *testing.T) {
	store := &mockGenerateShiftsStore{insertShiftsErr: fmt.Errorf("connection refused")}
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	result, err := GenerateShifts(context.Background(), store, testConfig(), zap.NewNop(), "single-day", start, start, false)
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to save shifts")
}
