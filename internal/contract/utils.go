package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/abtrend/schema"
)

// Color variables for console output.
var (
	WinnerColor = color.New(color.FgGreen, color.Bold) // WinnerColor marks the best rate in a row.
	NoDataColor = color.New(color.FgHiBlack)           // NoDataColor dims missing values.
	ZoomColor   = color.New(color.FgCyan)              // ZoomColor highlights zoom state lines.
)

// NoDataLabel is printed in place of a missing rate.
const NoDataLabel = "-"

// GetColorRate returns a rate string, colored when it is the row winner.
func GetColorRate(text string, winner bool) string {
	if winner {
		return WinnerColor.Sprint(text)
	}
	return text
}

// GetColorNoData returns the dimmed placeholder for a missing rate.
func GetColorNoData() string {
	return NoDataColor.Sprint(NoDataLabel)
}

// BestVariant returns the active variant with the highest rate in a point.
// The earliest variant wins ties. It reports false when no active variant has data.
func BestVariant(p schema.Point, sel schema.Selection) (schema.VariantKey, bool) {
	var best schema.VariantKey
	var bestValue float64
	found := false
	for _, k := range sel.Keys() {
		v := p.Rate(k)
		if v == nil {
			continue
		}
		if !found || *v > bestValue {
			best, bestValue, found = k, *v, true
		}
	}
	return best, found
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".abtrend_cache.db"
	}
	return filepath.Join(homeDir, ".abtrend_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for export history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".abtrend_history.db"
	}
	return filepath.Join(homeDir, ".abtrend_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
