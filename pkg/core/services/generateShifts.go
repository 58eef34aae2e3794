package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mhollins/dutyroster/internal/config"
	"github.com/mhollins/dutyroster/pkg/core/model"
	"github.com/mhollins/dutyroster/pkg/core/shiftgen"
	"github.com/mhollins/dutyroster/pkg/db"
)

// GenerateShiftsStore defines the database operations needed to persist
// generated shifts
type GenerateShiftsStore interface {
	InsertShifts(ctx context.Context, shifts []db.Shift) error
}

// GenerateShiftsResult contains the generated shift records
type GenerateShiftsResult struct {
	Template   string
	Start, End time.Time
	Shifts     []model.Shift
	Saved      bool
}

// GenerateShifts expands the named template over the inclusive date range
// and persists the resulting shift records unless dryRun is set.
func GenerateShifts(
	ctx context.Context,
	store GenerateShiftsStore,
	cfg *config.Config,
	logger *zap.Logger,
	templateName string,
	start, end time.Time,
	dryRun bool,
) (*GenerateShiftsResult, error) {
	logger.Debug("Starting generateShifts",
		zap.String("template", templateName),
		zap.String("start", start.Format("2006-01-02")),
		zap.String("end", end.Format("2006-01-02")),
		zap.Bool("dry_run", dryRun))

	tmpl, err := cfg.Template(templateName)
	if err != nil {
		return nil, err
	}

	shifts, err := shiftgen.Generate(start, end, tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate shifts: %w", err)
	}
	logger.Info("Generated shifts", zap.Int("count", len(shifts)), zap.String("template", templateName))

	result := &GenerateShiftsResult{
		Template: templateName,
		Start:    start,
		End:      end,
		Shifts:   shifts,
	}

	if dryRun {
		logger.Info("Dry run mode - shifts not saved")
		return result, nil
	}

	records := make([]db.Shift, len(shifts))
	for i, s := range shifts {
		records[i] = toDBShift(s, cfg.DepartmentID)
	}
	if err := store.InsertShifts(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save shifts: %w", err)
	}
	logger.Info("Shifts saved", zap.Int("count", len(records)))

	result.Saved = true
	return result, nil
}
