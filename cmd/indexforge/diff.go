package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver

	"github.com/indexforge/indexforge/internal/mappings"
	"github.com/indexforge/indexforge/internal/report"
	"github.com/indexforge/indexforge/internal/snapshot"
)

var (
	diffAgainstLast bool
	diffNoColor     bool
)

var diffCmd = &cobra.Command{
	Use:   "diff [actual-mapping.json]",
	Short: "Compare a persisted mapping against the freshly built one",
	Long: `Build the expected mapping from the registered type definitions and
compare it against a persisted mapping document. Exits non-zero when a
structural migration is required.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		expected, cfg, err := loadAndBuild()
		if err != nil {
			return err
		}

		var actual *mappings.IndexMapping
		switch {
		case diffAgainstLast:
			dbURL := cfg.GetDatabaseURL()
			if dbURL == "" {
				return fmt.Errorf("no snapshot database configured\n\nSet DATABASE_URL or snapshot.database_url in indexforge.yml")
			}
			db, err := sql.Open("pgx", dbURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			last, err := snapshot.NewTracker(db).GetLast()
			if err != nil {
				return err
			}
			if last == nil {
				return fmt.Errorf("no snapshots recorded yet, run 'indexforge snapshot record' first")
			}
			logger.Debug("loaded last snapshot", zap.String("id", last.ID))
			actual = last.Mapping
		case len(args) == 1:
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			actual = &mappings.IndexMapping{}
			if err := json.Unmarshal(content, actual); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
		default:
			return fmt.Errorf("provide a mapping file or use --against-last")
		}

		diff := mappings.DiffMappings(actual, expected)

		r := report.New(actual, expected, diff)
		r.NoColor = diffNoColor
		fmt.Println(r.String())

		if diff != nil {
			fmt.Println(r.Summary())
			return fmt.Errorf("mapping changed at %s, migration required", diff.ChangedProp)
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffAgainstLast, "against-last", false, "Diff against the last recorded snapshot instead of a file")
	diffCmd.Flags().BoolVar(&diffNoColor, "no-color", false, "Disable colored output")
}
