package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the export history store.
type HistoryStatus struct {
	Backend          string    `json:"backend"`
	Connected        bool      `json:"connected"`
	TotalExports     int       `json:"total_exports"`
	LastExportID     string    `json:"last_export_id"`
	LastExportTime   time.Time `json:"last_export_time"`
	OldestExportTime time.Time `json:"oldest_export_time"`
	FailedExports    int       `json:"failed_exports"`
}

// ExportRecord represents a row from the abtrend_exports table.
type ExportRecord struct {
	ExportID    string
	ExportedAt  time.Time
	FilePath    string
	Granularity string
	Selection   string
	Theme       string
	LineStyle   string
	DomainStart int64
	DomainEnd   int64
	PointCount  int32
	Succeeded   bool
	ErrorText   *string
}
