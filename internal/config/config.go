// Package config defines the JSON/YAML-serializable configuration model for the
// trip normalizer. A Pipeline value carries every path, file list and sink
// setting a run needs; nothing is read from package-level state.
//
// Example (trimmed):
//
//	{
//	  "job":      "cyclistic",
//	  "data_dir": "../data",
//	  "raw_dir":  "raw",
//	  "db_name":  "cyclistic.db",
//	  "files":    [ { "name": "Divvy_Trips_2019_Q1.csv", "mapping": "divvy_2019" } ],
//	  "parser":   { "options": { "trim_space": true } },
//	  "storage":  { "kind": "sqlite" },
//	  "tables":   { "staging_prefix": "py_stg_", "merged": "py_stg_MERGED_2019_2020" }
//	}
package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/roydale/case-study-01-cyclistic/internal/schema"
)

// Compiled-in defaults.
const (
	DefaultJob           = "cyclistic"
	DefaultDataDir       = "../data"
	DefaultRawDir        = "raw"
	DefaultDBName        = "cyclistic.db"
	DefaultStorageKind   = "sqlite"
	DefaultStagingPrefix = "py_stg_"
	DefaultMergedTable   = "py_stg_MERGED_2019_2020"
	DefaultBatchSize     = 5000
)

// Pipeline is the top-level configuration of one normalization run.
type Pipeline struct {
	// Job names the run for logs and metrics.
	Job string `json:"job" yaml:"job"`

	// DataDir is the base data directory; the database file lives here.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// RawDir holds the source CSV exports. Relative values resolve against
	// DataDir.
	RawDir string `json:"raw_dir" yaml:"raw_dir"`

	// RawURL, when set, replaces RawDir: exports are fetched over HTTP from
	// this base URL.
	RawURL string `json:"raw_url" yaml:"raw_url"`

	// DBName is the SQLite database file name under DataDir.
	DBName string `json:"db_name" yaml:"db_name"`

	// Files lists the exports to load, in order, with their mapping names.
	Files []schema.FileSpec `json:"files" yaml:"files"`

	Parser  Parser        `json:"parser" yaml:"parser"`
	Storage Storage       `json:"storage" yaml:"storage"`
	Tables  Tables        `json:"tables" yaml:"tables"`
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
	Metrics Metrics       `json:"metrics" yaml:"metrics"`
}

// Parser carries CSV reader options. Recognized keys:
//
//	comma (string), trim_space (bool), lazy_quotes (bool),
//	na_values (list of strings read as null)
type Parser struct {
	Options Options `json:"options" yaml:"options"`
}

// Storage selects the sink backend.
type Storage struct {
	// Kind selects the backend: "sqlite" (default) or "postgres".
	Kind string `json:"kind" yaml:"kind"`

	// DSN overrides the connection string. For sqlite an empty DSN means
	// <data_dir>/<db_name>.
	DSN string `json:"dsn" yaml:"dsn"`
}

// Tables names the destination tables.
type Tables struct {
	StagingPrefix string `json:"staging_prefix" yaml:"staging_prefix"`
	Merged        string `json:"merged" yaml:"merged"`
}

// RuntimeConfig controls batching of bulk appends.
type RuntimeConfig struct {
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Metrics selects an optional metrics backend.
type Metrics struct {
	// Backend is "none" (default), "pushgateway" or "datadog".
	Backend        string   `json:"backend" yaml:"backend"`
	PushgatewayURL string   `json:"pushgateway_url" yaml:"pushgateway_url"`
	StatsdAddr     string   `json:"statsd_addr" yaml:"statsd_addr"`
	Namespace      string   `json:"namespace" yaml:"namespace"`
	Tags           []string `json:"tags" yaml:"tags"`
}

// Default returns the compiled-in pipeline: the five quarterly exports read
// from ../data/raw and loaded into ../data/cyclistic.db.
func Default() Pipeline {
	files := make([]schema.FileSpec, len(schema.DefaultFiles))
	copy(files, schema.DefaultFiles)
	return Pipeline{
		Job:     DefaultJob,
		DataDir: DefaultDataDir,
		RawDir:  DefaultRawDir,
		DBName:  DefaultDBName,
		Files:   files,
		Parser: Parser{Options: Options{
			"trim_space": true,
		}},
		Storage: Storage{Kind: DefaultStorageKind},
		Tables: Tables{
			StagingPrefix: DefaultStagingPrefix,
			Merged:        DefaultMergedTable,
		},
		Runtime: RuntimeConfig{BatchSize: DefaultBatchSize},
		Metrics: Metrics{Backend: "none"},
	}
}

// RawPath returns the directory holding the source exports.
func (p Pipeline) RawPath() string {
	if filepath.IsAbs(p.RawDir) {
		return p.RawDir
	}
	return filepath.Join(p.DataDir, p.RawDir)
}

// DSN returns the storage connection string, defaulting to the database file
// under DataDir.
func (p Pipeline) DSN() string {
	if dsn := strings.TrimSpace(p.Storage.DSN); dsn != "" {
		return dsn
	}
	return filepath.Join(p.DataDir, p.DBName)
}

// StagingTable returns the staging table name for a provenance tag.
func (p Pipeline) StagingTable(tag string) string {
	return p.Tables.StagingPrefix + tag
}

// BatchSize returns the configured batch size or the default when unset.
func (p Pipeline) BatchSize() int {
	if p.Runtime.BatchSize > 0 {
		return p.Runtime.BatchSize
	}
	return DefaultBatchSize
}

// Options is a small helper to fetch typed values from free-form option maps.
// It performs minimal coercion and returns defaults when a key is absent or of
// an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64
// and YAML integers as int; both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Strings returns the string list for key. YAML and JSON lists decode as
// []any; non-string elements are skipped. ok is false when the key is absent
// or not a list.
func (o Options) Strings(key string) (vals []string, ok bool) {
	switch v := o[key].(type) {
	case []string:
		return append([]string(nil), v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, isStr := e.(string); isStr {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

// Rune returns the first rune of a string value for key, or def.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON makes a null "options" object decode to an empty map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
