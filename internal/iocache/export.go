package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/internal/parquet"
)

// ExecuteHistoryExport writes every recorded export to a Parquet file.
func ExecuteHistoryExport(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalExports == 0 {
		return errors.New("no export history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total exports: %d\n", status.TotalExports)

	records, err := store.ListExports(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve exports: %w", err)
	}

	rows := parquet.ConvertExportRecords(records)
	if err := parquet.WriteExportsParquet(rows, outputFile); err != nil {
		return fmt.Errorf("failed to write exports: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d export records to: %s\n", len(rows), outputFile)

	return nil
}
