package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/aggarwalComputronix/website/internal/infrastructure/spreadsheet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importEncoding  string
	importDelimiter string
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Load an .xlsx or .csv product sheet into the catalog",
	Long: `Reads the first sheet of a workbook (or a CSV file), coerces each row the
same way the admin upload does and inserts the products into the configured store.

Example:
  computronix import products.xlsx
  computronix import --encoding windows-1252 --delimiter ";" export.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importEncoding, "encoding", "", "CSV text encoding, e.g. windows-1252 (default UTF-8)")
	importCmd.Flags().StringVar(&importDelimiter, "delimiter", ",", "CSV field delimiter")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]

	comma, size := utf8.DecodeRuneInString(importDelimiter)
	if size == 0 || size != len(importDelimiter) {
		return fmt.Errorf("delimiter must be a single character, got %q", importDelimiter)
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.persistent {
		return errors.New("import needs a persistent store; set store.driver to sqlite or rest")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := spreadsheet.Read(f, path, spreadsheet.Options{Encoding: importEncoding, Comma: comma})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cliTimeout)
	defer cancel()

	report, err := a.importer.Import(ctx, rows)
	if report != nil {
		logger.Info("import report",
			zap.String("file", path),
			zap.Int("rows", report.Rows),
			zap.Int("imported", report.Imported),
			zap.Int("skipped", report.Skipped),
			zap.Ints("skipped_rows", report.SkippedRows))
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d rows (%d skipped)\n",
			report.Imported, report.Rows, report.Skipped)
	}
	return err
}
