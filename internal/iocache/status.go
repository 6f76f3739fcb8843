package iocache

import (
	"fmt"
	"io"

	"github.com/huangsam/abtrend/schema"
)

// statusTimeLayout formats timestamps in status output.
const statusTimeLayout = "2006-01-02 15:04:05"

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintHistoryStatus prints export history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Exports: %d\n", status.TotalExports)
	if status.TotalExports > 0 {
		_, _ = fmt.Fprintf(w, "Last Export ID: %s\n", status.LastExportID)
		_, _ = fmt.Fprintf(w, "Last Export: %s\n", status.LastExportTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Export: %s\n", status.OldestExportTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Failed Exports: %d\n", status.FailedExports)
	}
}
