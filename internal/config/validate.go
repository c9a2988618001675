// Package config provides configuration models and helpers for the trip
// normalizer.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/roydale/case-study-01-cyclistic/internal/schema"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind", "files[2].mapping").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err joins the error-severity issues into a single error, or returns nil.
func Err(issues []Issue) error {
	var errs []error
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		}
	}
	return errors.Join(errs...)
}

// ValidatePipeline performs static validation of a Pipeline against the
// mappings in reg. A nil reg means schema.DefaultRegistry().
//
// It does not mutate the pipeline. Callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline, reg *schema.Registry) []Issue {
	if reg == nil {
		reg = schema.DefaultRegistry()
	}
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics will be labeled with the default job name",
		})
	}
	if strings.TrimSpace(p.DataDir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "data_dir",
			Message:  "data_dir must not be empty",
		})
	}
	if raw := strings.TrimSpace(p.RawURL); raw != "" {
		if u, err := url.Parse(raw); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "raw_url",
				Message:  fmt.Sprintf("raw_url %q must be an absolute http or https URL", raw),
			})
		}
	}
	issues = append(issues, validateFiles(p.Files, reg)...)
	for i, f := range p.Files {
		if tag, err := schema.ProvenanceTag(f.Name); err == nil && p.StagingTable(tag) == p.Tables.Merged {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("files[%d].name", i),
				Message:  fmt.Sprintf("staging table %q collides with the merged table", p.Tables.Merged),
			})
		}
	}
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateStorage(p)...)
	issues = append(issues, validateTables(p.Tables)...)
	issues = append(issues, validateRuntime(p.Runtime)...)
	issues = append(issues, validateMetrics(p.Metrics)...)

	return issues
}

// validateFiles checks names, mapping references and provenance tag
// uniqueness. Two files with the same tag would overwrite each other's
// staging table.
func validateFiles(files []schema.FileSpec, reg *schema.Registry) []Issue {
	var issues []Issue

	if len(files) == 0 {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "files",
			Message:  "at least one source file is required",
		})
	}

	tags := map[string]int{}
	for i, f := range files {
		if strings.TrimSpace(f.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("files[%d].name", i),
				Message:  "file name must not be empty",
			})
			continue
		}
		tag, err := schema.ProvenanceTag(f.Name)
		if err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("files[%d].name", i),
				Message:  err.Error(),
			})
		} else if prev, dup := tags[tag]; dup {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("files[%d].name", i),
				Message:  fmt.Sprintf("provenance tag %q already used by files[%d]", tag, prev),
			})
		} else {
			tags[tag] = i
		}

		if strings.TrimSpace(f.Mapping) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("files[%d].mapping", i),
				Message:  "mapping must not be empty",
			})
			continue
		}
		m, err := reg.Lookup(f.Mapping)
		if err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("files[%d].mapping", i),
				Message:  fmt.Sprintf("%v; known mappings: %s", err, strings.Join(reg.Names(), ", ")),
			})
		} else if err := m.Check(); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("files[%d].mapping", i),
				Message:  fmt.Sprintf("mapping %q: %v", f.Mapping, err),
			})
		}
	}
	return issues
}

// validateParser validates CSV reader options.
func validateParser(p Parser) []Issue {
	var issues []Issue

	if v, ok := p.Options["comma"]; ok {
		s, isStr := v.(string)
		if !isStr || len([]rune(s)) != 1 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "parser.options.comma",
				Message:  fmt.Sprintf("comma must be a single character, got %v", v),
			})
		}
	}
	if v, ok := p.Options["na_values"]; ok {
		if _, isList := p.Options.Strings("na_values"); !isList {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "parser.options.na_values",
				Message:  fmt.Sprintf("na_values must be a list of strings, got %v", v),
			})
		}
	}
	known := map[string]struct{}{
		"comma":       {},
		"trim_space":  {},
		"lazy_quotes": {},
		"na_values":   {},
	}
	for k := range p.Options {
		if _, ok := known[k]; !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "parser.options." + k,
				Message:  fmt.Sprintf("unknown parser option %q is ignored", k),
			})
		}
	}
	return issues
}

// validateStorage validates the sink selection.
func validateStorage(p Pipeline) []Issue {
	var issues []Issue

	kind := strings.TrimSpace(p.Storage.Kind)
	switch kind {
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	case "sqlite":
		if strings.TrimSpace(p.Storage.DSN) == "" && strings.TrimSpace(p.DBName) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "db_name",
				Message:  "sqlite storage needs db_name or storage.dsn",
			})
		}
	case "postgres":
		if strings.TrimSpace(p.Storage.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.dsn",
				Message:  "postgres storage requires a dsn",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unsupported storage kind %q (want sqlite or postgres)", kind),
		})
	}
	return issues
}

// validateTables validates destination table naming.
func validateTables(t Tables) []Issue {
	var issues []Issue

	if strings.TrimSpace(t.Merged) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "tables.merged",
			Message:  "merged table name must not be empty",
		})
	}
	if strings.TrimSpace(t.StagingPrefix) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "tables.staging_prefix",
			Message:  "empty staging prefix; staging tables are named by provenance tag alone",
		})
	}
	return issues
}

// validateRuntime validates RuntimeConfig for obvious misconfigurations.
func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	if r.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	return issues
}

// validateMetrics validates the metrics backend selection.
func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch m.Backend {
	case "", "none":
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "metrics.pushgateway_url",
				Message:  "pushgateway_url is empty; PUSHGATEWAY_URL or http://localhost:9091 will be used",
			})
		}
	case "datadog":
		if strings.TrimSpace(m.StatsdAddr) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "metrics.statsd_addr",
				Message:  "statsd_addr is empty; DD_AGENT_HOST or 127.0.0.1:8125 will be used",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; metrics disabled", m.Backend),
		})
	}
	return issues
}
