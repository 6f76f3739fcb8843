//go:build basic

// Package integration contains integration tests for abtrend.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noStores keeps the binary away from the user's cache and history files.
var noStores = []string{"ABTREND_CACHE_BACKEND=none", "ABTREND_HISTORY_BACKEND="}

// rawExport mirrors the dataset file without going through the schema package.
type rawExport struct {
	Data []struct {
		Date        string            `json:"date"`
		Visits      map[string]*int64 `json:"visits"`
		Conversions map[string]*int64 `json:"conversions"`
	} `json:"data"`
}

// TestSeriesVerification recomputes the original's daily rates from raw counts
// and compares them with the CLI's JSON output.
func TestSeriesVerification(t *testing.T) {
	data, err := os.ReadFile("../internal/dataset/sample.json")
	require.NoError(t, err)
	var raw rawExport
	require.NoError(t, json.Unmarshal(data, &raw))

	out, err := runAbtrend(t, noStores, "series", "--output", "json", "--select", "original")
	require.NoError(t, err)

	var result struct {
		Points []struct {
			Date     int64    `json:"date"`
			Original *float64 `json:"original"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Points, len(raw.Data))

	for i, day := range raw.Data {
		t.Run(day.Date, func(t *testing.T) {
			p := result.Points[i]
			assert.Equal(t, day.Date, time.UnixMilli(p.Date).UTC().Format(time.DateOnly))

			visits, conversions := day.Visits["0"], day.Conversions["0"]
			if visits == nil || *visits == 0 || conversions == nil {
				assert.Nil(t, p.Original)
				return
			}
			require.NotNil(t, p.Original)
			assert.InDelta(t, float64(*conversions)/float64(*visits)*100, *p.Original, 1e-9)
		})
	}
}

// TestSessionVerification drives a scripted session end to end.
func TestSessionVerification(t *testing.T) {
	dir := t.TempDir()
	script := dir + "/events.txt"
	require.NoError(t, os.WriteFile(script, []byte("select a,b\nzoom in\ntheme dark\nexport\nshow\n"), 0o644))

	env := append([]string{"ABTREND_EXPORT_DIR=" + dir}, noStores...)
	out, err := runAbtrend(t, env, "session", "--script", script, "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme: dark")
	assert.Contains(t, out, "zoomed in")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "script plus one PNG")
}
