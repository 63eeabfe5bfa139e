// Package driver sequences document curation end to end: it acquires the
// document list once, runs the agent loop on each document in order, and
// appends report and trajectory blocks as each document completes, so a
// crash loses at most the currently-processing document.
package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/curate"
)

// Evaluator runs one document to a verdict. *agent.Loop implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, preference, document string) (curate.Verdict, curate.Trajectory, error)
}

// Driver owns one curation run: the document source, the per-document
// evaluator, and the output sinks.
type Driver struct {
	source     curate.Source
	evaluator  Evaluator
	preference string

	logger        *slog.Logger
	logTrajectory bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the progress logger. Progress is observable but not
// part of the persisted contract.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) { d.logger = logger }
}

// WithTrajectoryLog enables the per-document trajectory file.
func WithTrajectoryLog(enabled bool) Option {
	return func(d *Driver) { d.logTrajectory = enabled }
}

// New creates a Driver. The preference text is fixed for the run.
func New(source curate.Source, evaluator Evaluator, preference string, opts ...Option) *Driver {
	d := &Driver{
		source:     source,
		evaluator:  evaluator,
		preference: preference,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TrajectoryPath derives the trajectory file path from the report path.
func TrajectoryPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_trajectory.md"
}

// Run curates every document produced by the source. Accepted documents
// get a report block appended to outputPath immediately; when trajectory
// logging is enabled, every document gets a trajectory block appended to
// the derived trajectory path. Both sinks are closed on every exit path.
//
// Run returns one Record per processed document, accepted or not. A
// source failure is fatal before any output file exists; an evaluator
// failure aborts the run but leaves all previously written blocks valid
// on disk, and the records completed so far are returned alongside the
// error.
func (d *Driver) Run(ctx context.Context, outputPath string) ([]curate.Record, error) {
	docs, err := d.source.Produce(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire documents: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	defer out.Close()

	var traj *os.File
	if d.logTrajectory {
		traj, err = os.Create(TrajectoryPath(outputPath))
		if err != nil {
			return nil, fmt.Errorf("open trajectory log: %w", err)
		}
		defer traj.Close()
	}

	total := len(docs)
	records := make([]curate.Record, 0, total)
	for i, doc := range docs {
		verdict, trajectory, err := d.evaluator.Evaluate(ctx, d.preference, doc)
		if err != nil {
			return records, fmt.Errorf("document %d/%d: %w", i+1, total, err)
		}

		rec := curate.Record{Index: i + 1, Document: doc, Decision: verdict.Decision, Remarks: verdict.Remarks}
		records = append(records, rec)

		if traj != nil {
			if _, err := io.WriteString(traj, renderTrajectory(rec, trajectory, total)); err != nil {
				return records, fmt.Errorf("write trajectory block %d/%d: %w", rec.Index, total, err)
			}
		}
		if rec.Decision {
			if _, err := io.WriteString(out, renderReport(rec, total)); err != nil {
				return records, fmt.Errorf("write report block %d/%d: %w", rec.Index, total, err)
			}
		}

		d.logger.Info("document curated",
			"completed", i+1,
			"total", total,
			"accepted", rec.Decision,
			"steps", trajectory.Steps(),
		)
	}

	return records, nil
}
