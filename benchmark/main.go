// Package main provides a performance benchmarking tool for the abtrend CLI.
// It measures execution times across datasets and command types, running each
// test multiple times, treating the first successful run as cold and averaging
// the rest as warm, and writes CSV output for performance analysis.
//
// Prerequisites:
// - abtrend binary installed and available in PATH
// - One or more experiment exports (*.json) in the dataset directory
//
// Usage: go run benchmark/main.go [dataset-dir]
//
//	dataset-dir: Directory containing experiment JSON files
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Datasets    []string
	ExportDir   string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
}

// benchCommand is one CLI invocation measured per dataset.
type benchCommand struct {
	name       string
	args       []string
	completion string // printed on success; empty means exit status only
}

var commands = []benchCommand{
	{name: "series", args: []string{"series"}, completion: "Series computed in"},
	{name: "series-week", args: []string{"series", "--granularity", "week"}, completion: "Series computed in"},
	{name: "view", args: []string{"view", "--zoom", "in,in,out"}, completion: "View computed in"},
	{name: "export", args: []string{"export", "--line-style", "smooth"}},
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [dataset-dir]\n", os.Args[0])
		os.Exit(1)
	}

	datasets, err := filepath.Glob(filepath.Join(os.Args[1], "*.json"))
	if err != nil || len(datasets) == 0 {
		fmt.Printf("No datasets found in %s\n", os.Args[1])
		os.Exit(1)
	}

	exportDir, err := os.MkdirTemp("", "abtrend-bench-*")
	if err != nil {
		fmt.Printf("Failed to create export dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(exportDir) }()

	config := BenchmarkConfig{
		Datasets:    datasets,
		ExportDir:   exportDir,
		Timeout:     time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
	}

	if _, err := exec.LookPath("abtrend"); err != nil {
		fmt.Printf("Prerequisites check failed: abtrend binary not found in PATH\n")
		os.Exit(1)
	}

	// Clear the cache using abtrend cache clear
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("abtrend", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// runBenchmarks executes all benchmark tests across the datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, dataset := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", filepath.Base(dataset))
		for _, c := range commands {
			results = append(results, runBenchmarkSuite(config, dataset, c))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset string, c benchCommand) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", c.name, filepath.Base(dataset))

	// Helper to run a benchmark phase
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, dataset, c, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     filepath.Base(dataset),
		Command:     c.name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes an abtrend command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, dataset string, c benchCommand, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{}, c.args...)
	args = append(args, dataset, "--cache-backend", cacheBackend, "--export-dir", config.ExportDir, "--color", "no")

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("abtrend", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, c) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, c benchCommand) bool {
	if c.completion == "" {
		return true
	}
	return strings.Contains(string(output), c.completion)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/abtrend_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, c := range commands {
		fmt.Printf("%s:\n", c.name)
		for _, result := range results {
			if result.Command == c.name {
				fmt.Printf("  %-20s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
