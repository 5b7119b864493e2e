package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver

	"github.com/indexforge/indexforge/internal/config"
	"github.com/indexforge/indexforge/internal/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Mapping snapshot commands",
	Long:  "Record and inspect the local history of built index mappings",
}

var snapshotRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Build the active mapping and record it as a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		mapping, cfg, err := loadAndBuild()
		if err != nil {
			return err
		}

		tracker, cleanup, err := openTracker(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		if err := tracker.Initialize(); err != nil {
			return err
		}

		id, err := tracker.Record(mapping)
		if err != nil {
			return err
		}

		logger.Debug("snapshot recorded", zap.String("id", id))
		fmt.Printf("Recorded snapshot %s (%d properties)\n", id, len(mapping.Properties))
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded snapshots, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		tracker, cleanup, err := openTracker(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		snapshots, err := tracker.GetAll()
		if err != nil {
			return err
		}

		if len(snapshots) == 0 {
			fmt.Println("No snapshots recorded")
			return nil
		}

		for _, s := range snapshots {
			fmt.Printf("%s  %s  %d properties\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.PropertyCount)
		}
		return nil
	},
}

// openTracker connects to the snapshot database from config or
// DATABASE_URL.
func openTracker(cfg *config.Config) (*snapshot.Tracker, func(), error) {
	dbURL := cfg.GetDatabaseURL()
	if dbURL == "" {
		return nil, nil, fmt.Errorf("no snapshot database configured\n\nSet DATABASE_URL or snapshot.database_url in indexforge.yml")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return snapshot.NewTracker(db), func() { db.Close() }, nil
}

func init() {
	snapshotCmd.AddCommand(snapshotRecordCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
}
