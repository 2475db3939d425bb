package main

import (
	"context"
	"fmt"
	"os"

	"address-resolver/internal/config"
	"address-resolver/internal/facility"
	"address-resolver/internal/logger"
	"address-resolver/internal/models"
	"address-resolver/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	file      string
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "importer",
	Short: "Import facility directories into PostgreSQL",
	Long:  "Reads a YAML facility table, validates it and replaces the contents of the facilities table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.Setup(cfg.LogLevel, cfg.LogFormat)

		if file == "" {
			file = cfg.FacilitiesFile
		}
		if cfg.DBSource == "" {
			return fmt.Errorf("DB_SOURCE is required")
		}
		return run(cmd.Context(), cfg.DBSource, file)
	},
}

func init() {
	rootCmd.Flags().StringVar(&file, "file", "", "path to the facilities YAML file (defaults to FACILITIES_FILE)")
	rootCmd.Flags().StringVar(&configDir, "config", "configs", "directory containing app.env")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, dsn, path string) error {
	log.Info().Str("file", path).Msg("starting import")

	table, err := facility.LoadFile(path)
	if err != nil {
		return err
	}
	// reject anything the API would refuse to serve
	if _, err := facility.New(table); err != nil {
		return err
	}
	expected := int64(len(table[models.DirectoryDepots]) + len(table[models.DirectoryRailTerminals]))
	log.Info().Int64("records", expected).Msg("parsed facilities")

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer conn.Close(context.Background())

	repo := repository.NewFacilityRepository(conn)
	if err := repo.CreateSchema(ctx); err != nil {
		return err
	}

	n, err := repo.ReplaceFacilities(ctx, table)
	if err != nil {
		return err
	}

	count, err := repo.CountFacilities(ctx)
	if err != nil {
		return err
	}
	if count != expected || n != expected {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expected, count)
	}

	log.Info().Int64("records", count).Msg("import complete")
	return nil
}
