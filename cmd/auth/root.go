package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Miraines/hoops-auth/internal/infra/config"
	lg "github.com/Miraines/hoops-auth/internal/infra/log"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "auth",
		Short: "hoops authentication service",
		Long: `auth issues and refreshes JWT credentials for local (email/password)
and Google accounts. Use "serve" to run the HTTP API and "migrate" to manage
the users schema.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// bootstrap loads the configuration and builds the logger every subcommand
// starts from.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := lg.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func openDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}
