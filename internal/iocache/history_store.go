package iocache

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/abtrend/internal/contract"
	"github.com/huangsam/abtrend/schema"
)

// exportsTable is the name of the table for export history.
const exportsTable = "abtrend_exports"

// sqliteTimeLayout keeps SQLite timestamps lexically sortable.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// exportColumns is the column list shared by inserts and selects.
const exportColumns = `export_id, exported_at, file_path, granularity, selection, theme, line_style,
	domain_start, domain_end, point_count, succeeded, error_text`

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The schema is brought to the latest migration before the store is returned.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	if err := runMigrations(backend, connStr, -1, io.Discard); err != nil {
		return nil, fmt.Errorf("failed to prepare history tables: %w", err)
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// RecordExport stores one export attempt.
func (hs *HistoryStoreImpl) RecordExport(record schema.ExportRecord) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(exportsTable, hs.backend)
	var query string
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`, quotedTableName, exportColumns)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, quotedTableName, exportColumns)
	}

	_, err := hs.db.Exec(query,
		record.ExportID,
		formatTime(record.ExportedAt, hs.backend),
		record.FilePath,
		record.Granularity,
		record.Selection,
		record.Theme,
		record.LineStyle,
		record.DomainStart,
		record.DomainEnd,
		record.PointCount,
		record.Succeeded,
		record.ErrorText,
	)
	if err != nil {
		return fmt.Errorf("failed to insert export %s: %w", record.ExportID, err)
	}
	return nil
}

// ListExports returns the most recent exports, newest first.
func (hs *HistoryStoreImpl) ListExports(limit int) ([]schema.ExportRecord, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY exported_at DESC, export_id DESC", exportColumns, quoteTableName(exportsTable, hs.backend))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query exports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ExportRecord
	for rows.Next() {
		record, err := hs.scanExport(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exports: %w", err)
	}

	return results, nil
}

// scanExport reads one row, handling the SQLite text timestamp.
func (hs *HistoryStoreImpl) scanExport(rows *sql.Rows) (schema.ExportRecord, error) {
	var record schema.ExportRecord
	switch hs.backend {
	case schema.SQLiteBackend:
		var exportedAt string
		if err := rows.Scan(&record.ExportID, &exportedAt, &record.FilePath, &record.Granularity, &record.Selection,
			&record.Theme, &record.LineStyle, &record.DomainStart, &record.DomainEnd, &record.PointCount,
			&record.Succeeded, &record.ErrorText); err != nil {
			return record, fmt.Errorf("failed to scan export: %w", err)
		}
		t, err := parseTime(exportedAt)
		if err != nil {
			return record, fmt.Errorf("failed to parse exported_at: %w", err)
		}
		record.ExportedAt = t
	default: // MySQL and PostgreSQL store as native datetime
		if err := rows.Scan(&record.ExportID, &record.ExportedAt, &record.FilePath, &record.Granularity, &record.Selection,
			&record.Theme, &record.LineStyle, &record.DomainStart, &record.DomainEnd, &record.PointCount,
			&record.Succeeded, &record.ErrorText); err != nil {
			return record, fmt.Errorf("failed to scan export: %w", err)
		}
	}
	return record, nil
}

// Close closes the underlying DB connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   string(hs.backend),
		Connected: hs.db != nil,
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(exportsTable, hs.backend)

	row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalExports); err != nil {
		return status, fmt.Errorf("failed to get total exports: %w", err)
	}

	if status.TotalExports == 0 {
		return status, nil
	}

	latest, err := hs.ListExports(1)
	if err != nil {
		return status, fmt.Errorf("failed to get last export: %w", err)
	}
	if len(latest) > 0 {
		status.LastExportID = latest[0].ExportID
		status.LastExportTime = latest[0].ExportedAt
	}

	oldestQuery := fmt.Sprintf("SELECT exported_at FROM %s ORDER BY exported_at ASC LIMIT 1", quotedTableName)
	row = hs.db.QueryRow(oldestQuery)
	switch hs.backend {
	case schema.SQLiteBackend:
		var oldest string
		if err := row.Scan(&oldest); err != nil {
			return status, fmt.Errorf("failed to get oldest export time: %w", err)
		}
		t, err := parseTime(oldest)
		if err != nil {
			return status, fmt.Errorf("failed to parse oldest export time: %w", err)
		}
		status.OldestExportTime = t
	default:
		if err := row.Scan(&status.OldestExportTime); err != nil {
			return status, fmt.Errorf("failed to get oldest export time: %w", err)
		}
	}

	placeholder := "?"
	if hs.backend == schema.PostgreSQLBackend {
		placeholder = "$1"
	}
	failedQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE succeeded = %s", quotedTableName, placeholder)
	if err := hs.db.QueryRow(failedQuery, false).Scan(&status.FailedExports); err != nil {
		return status, fmt.Errorf("failed to count failed exports: %w", err)
	}

	return status, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(sqliteTimeLayout)
	default:
		return t
	}
}

// parseTime reads a SQLite timestamp written by formatTime.
func parseTime(s string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, s)
}
