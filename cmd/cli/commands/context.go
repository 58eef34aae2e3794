package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mhollins/dutyroster/internal/config"
	"github.com/mhollins/dutyroster/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Logger   *zap.Logger
	Ctx      context.Context
}

// parseDate parses a YYYY-MM-DD command argument
func parseDate(arg string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", arg, err)
	}
	return t, nil
}
