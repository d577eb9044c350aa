package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"finboard/internal/analytics"
	"finboard/internal/core"
	"finboard/internal/storage"
)

// sourceFlags select where transactions are read from. Exactly one of file,
// db and sheets must be set.
type sourceFlags struct {
	file       string
	db         string
	sheets     string
	configFile string
}

func newRootCmd() *cobra.Command {
	flags := &sourceFlags{}

	root := &cobra.Command{
		Use:   "finboard-cli",
		Short: "Analyze a finboard ledger from the command line",
		Long: `finboard-cli runs the dashboard analytics over a ledger read from a JSON
file, the SQLite store or the Google Sheets mirror and prints the result as JSON.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.file, "file", "", "JSON file holding an array of transactions")
	root.PersistentFlags().StringVar(&flags.db, "db", "", "path to the SQLite database")
	root.PersistentFlags().StringVar(&flags.sheets, "sheets", "", "Google Spreadsheet ID to read from")
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (defaults to $FINBOARD_CONFIG)")

	root.AddCommand(
		newAnalyzeCmd(flags),
		newTipsCmd(flags),
		newPredictCmd(flags),
		newMigrateCmd(flags),
	)
	return root
}

func newAnalyzeCmd(flags *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Print spending per category, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := loadTransactions(cmd.Context(), flags)
			if err != nil {
				return err
			}
			cats, err := analytics.AggregateByCategory(txs)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				Categories []core.CategoryAnalysis `json:"categories"`
				Overview   core.Overview           `json:"overview"`
			}{cats, analytics.Summarize(txs, time.Now())})
		},
	}
}

func newTipsCmd(flags *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tips",
		Short: "Print savings tips for the top spending category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := loadTransactions(cmd.Context(), flags)
			if err != nil {
				return err
			}
			tips, err := analytics.GenerateSavingsTips(txs)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string][]string{"tips": tips})
		},
	}
}

func newPredictCmd(flags *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "predict",
		Short: "Project next month's expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, err := loadTransactions(cmd.Context(), flags)
			if err != nil {
				return err
			}
			p, err := analytics.PredictMonthlyExpenses(txs)
			if errors.Is(err, core.ErrEmptyInput) {
				return errors.New("no expenses to predict from")
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newMigrateCmd(flags *sourceFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema migrations to --db",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.db == "" {
				return errors.New("--db is required")
			}
			if err := storage.RunMigrations(flags.db); err != nil {
				return err
			}
			version, dirty, _, err := storage.SchemaVersion(flags.db)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{"database": flags.db, "version": version, "dirty": dirty})
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
