package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/campaigns/internal/logging"
)

// Fixed pipeline locations, relative to the working directory.
const (
	DefaultInputDir  = "files/input"
	DefaultOutputDir = "files/output"
)

// RunResult summarizes one pipeline run.
type RunResult struct {
	Rows     int
	Archives int
	Entries  int
	Outputs  []string // written files, in table order
	Dataset  *Dataset
	Duration time.Duration
}

// Builder reads campaign archives and writes the client, campaign and
// economics tables.
type Builder struct {
	inputDir  string
	outputDir string
}

// NewBuilder creates a Builder reading from inputDir and writing to outputDir.
func NewBuilder(inputDir, outputDir string) *Builder {
	return &Builder{inputDir: inputDir, outputDir: outputDir}
}

// Run executes the pipeline once: read every archive, derive the three
// tables, write them. Any failure aborts the run.
func (b *Builder) Run(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	src := NewSource(b.inputDir)
	raw, err := Collect(ctx, src)
	if err != nil {
		return nil, err
	}

	stats := src.Stats()
	logger.Info("raw records loaded",
		"archives", stats.Archives,
		"entries", stats.Entries,
		"rows", len(raw),
	)

	ds := Project(raw)

	outputs, err := WriteDataset(ctx, b.outputDir, ds)
	if err != nil {
		return nil, err
	}

	result := &RunResult{
		Rows:     ds.Len(),
		Archives: stats.Archives,
		Entries:  stats.Entries,
		Outputs:  outputs,
		Dataset:  ds,
		Duration: time.Since(start),
	}

	logger.Info("tables written", "dir", b.outputDir, "rows", result.Rows, "duration", result.Duration)
	return result, nil
}
