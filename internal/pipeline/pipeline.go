// Package pipeline runs one normalization pass: every configured export is
// loaded into its own staging table, and the surviving frames are
// concatenated into the merged table.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roydale/case-study-01-cyclistic/internal/config"
	"github.com/roydale/case-study-01-cyclistic/internal/datasource"
	"github.com/roydale/case-study-01-cyclistic/internal/datasource/file"
	"github.com/roydale/case-study-01-cyclistic/internal/datasource/httpds"
	"github.com/roydale/case-study-01-cyclistic/internal/frame"
	"github.com/roydale/case-study-01-cyclistic/internal/loader"
	"github.com/roydale/case-study-01-cyclistic/internal/metrics"
	"github.com/roydale/case-study-01-cyclistic/internal/schema"
	"github.com/roydale/case-study-01-cyclistic/internal/storage"
)

// ErrNothingToMerge is returned when every configured file was excluded.
var ErrNothingToMerge = errors.New("pipeline: no files left to merge")

// ReasonEmpty is the exclusion reason for frames with no usable rows.
const ReasonEmpty = "empty or all-null"

// Runner carries the collaborators of a run. Zero-valued optional fields
// fall back to the configuration: Source to the raw URL or raw directory,
// Registry to schema.DefaultRegistry().
type Runner struct {
	Config   config.Pipeline
	Repo     storage.Repository
	Source   datasource.Source
	Registry *schema.Registry
	// Verbose logs each file before it is read.
	Verbose bool
}

// Run executes a pipeline with default collaborators.
func Run(ctx context.Context, cfg config.Pipeline, repo storage.Repository) (*Report, error) {
	r := &Runner{Config: cfg, Repo: repo}
	return r.Run(ctx)
}

// Run loads, stages and merges the configured files in order.
//
// Failures on a single file (unreadable, unknown mapping, empty, failed
// staging write) exclude that file and the run continues. Failures while
// merging are returned. The returned Report is non-nil whenever at least the
// staging phase ran, including when the error is ErrNothingToMerge.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.Repo == nil {
		return nil, fmt.Errorf("pipeline: nil repository")
	}
	cfg := r.Config
	src := r.Source
	if src == nil {
		var err error
		if src, err = NewSource(cfg); err != nil {
			return nil, err
		}
	}
	reg := r.Registry
	if reg == nil {
		reg = schema.DefaultRegistry()
	}
	job := cfg.Job
	if job == "" {
		job = config.DefaultJob
	}

	rep := &Report{
		RunID:   uuid.NewString(),
		Job:     job,
		Started: time.Now(),
	}
	defer func() { rep.Duration = time.Since(rep.Started) }()

	log.Printf("pipeline: start run_id=%s job=%s files=%d raw=%s", rep.RunID, job, len(cfg.Files), rawLocation(cfg))

	var staged []*frame.Frame
	for _, spec := range cfg.Files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		f, res, reason, err := r.stage(ctx, src, reg, job, spec)
		if f != nil {
			staged = append(staged, f)
		}
		if err != nil {
			// Cancellation is not a property of the file.
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			reason = err.Error()
		}
		if reason != "" {
			log.Printf("pipeline: excluded file=%s reason=%q", spec.Name, reason)
			metrics.RecordFile(job, "excluded")
			rep.Excluded = append(rep.Excluded, Exclusion{File: spec.Name, Reason: reason})
			continue
		}
		log.Printf("pipeline: staged file=%s table=%s rows=%d padded=%d coerce_errors=%d",
			spec.Name, res.Table, res.Rows, res.Padded, res.CoerceErrors)
		metrics.RecordFile(job, "included")
		rep.Included = append(rep.Included, res)
	}

	if len(staged) == 0 {
		return rep, ErrNothingToMerge
	}

	start := time.Now()
	merged, err := r.merge(ctx, staged)
	metrics.RecordStep(job, "merge", err, time.Since(start))
	if err != nil {
		return rep, err
	}
	rep.MergedTable = merged.Table
	rep.MergedRows = merged.Rows
	metrics.RecordRow(job, "merged", merged.Rows)
	metrics.RecordBatches(job, int64(merged.Batches))
	log.Printf("pipeline: merged table=%s rows=%d files=%d", merged.Table, merged.Rows, len(staged))
	return rep, nil
}

// stage loads one file and writes its staging table. A non-empty reason
// means the file is excluded without being an error of the run. The frame is
// returned whenever the file loaded with data, even when the staging write
// fails: those rows still go into the merged table.
func (r *Runner) stage(
	ctx context.Context,
	src datasource.Source,
	reg *schema.Registry,
	job string,
	spec schema.FileSpec,
) (*frame.Frame, FileResult, string, error) {
	var res FileResult

	start := time.Now()
	f, err := r.load(ctx, src, reg, spec)
	metrics.RecordStep(job, "load", err, time.Since(start))
	if err != nil {
		return nil, res, "", err
	}
	metrics.RecordRow(job, "loaded", int64(f.Len()))
	metrics.RecordRow(job, "padded", int64(f.Stats.Padded))
	metrics.RecordRow(job, "coerce_errors", int64(f.Stats.CoerceErrors))
	if f.Excludable() {
		return nil, res, ReasonEmpty, nil
	}

	f.Table = r.Config.StagingTable(f.Source)
	start = time.Now()
	wr, err := storage.WriteTable(ctx, r.Repo, f.Table, f, schema.Columns, r.batchSize())
	metrics.RecordStep(job, "write", err, time.Since(start))
	if err != nil {
		return f, res, "", err
	}
	metrics.RecordRow(job, "staged", wr.Rows)
	metrics.RecordBatches(job, int64(wr.Batches))

	res = FileResult{
		File:         spec.Name,
		Tag:          f.Source,
		Table:        f.Table,
		Rows:         wr.Rows,
		Padded:       f.Stats.Padded,
		CoerceErrors: f.Stats.CoerceErrors,
		Fingerprint:  f.Fingerprint(),
	}
	return f, res, "", nil
}

func (r *Runner) load(ctx context.Context, src datasource.Source, reg *schema.Registry, spec schema.FileSpec) (*frame.Frame, error) {
	mapping, err := reg.Lookup(spec.Mapping)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", spec.Name, err)
	}
	if r.Verbose {
		log.Printf("pipeline: loading file=%s mapping=%s", spec.Name, spec.Mapping)
	}
	return loader.Load(ctx, src, spec.Name, mapping, r.Config.Parser.Options)
}

func (r *Runner) merge(ctx context.Context, frames []*frame.Frame) (storage.WriteResult, error) {
	all, err := frame.Concat(frames...)
	if err != nil {
		return storage.WriteResult{}, fmt.Errorf("pipeline: merge: %w", err)
	}
	all.Table = r.Config.Tables.Merged
	res, err := storage.WriteTable(ctx, r.Repo, all.Table, all, schema.Columns, r.batchSize())
	if err != nil {
		return res, fmt.Errorf("pipeline: merge: %w", err)
	}
	return res, nil
}

// NewSource returns the source the configuration reads exports from: an
// HTTP source when raw_url is set, the raw directory otherwise.
func NewSource(cfg config.Pipeline) (datasource.Source, error) {
	if raw := strings.TrimSpace(cfg.RawURL); raw != "" {
		s, err := httpds.NewSource(httpds.Config{BaseURL: raw})
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		return s, nil
	}
	return file.NewDir(cfg.RawPath()), nil
}

func rawLocation(cfg config.Pipeline) string {
	if raw := strings.TrimSpace(cfg.RawURL); raw != "" {
		return raw
	}
	return cfg.RawPath()
}

func (r *Runner) batchSize() int { return r.Config.BatchSize() }
