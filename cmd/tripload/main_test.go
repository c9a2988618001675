package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roydale/case-study-01-cyclistic/internal/config"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid: (built-in defaults)")
}

func TestValidate_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, path, `{"storage": {"kind": "mysql"}, "runtime": {"batch_size": -1}}`)

	_, errOut, err := runCLI(t, "validate", "--config", path)
	require.Error(t, err)
	assert.Contains(t, errOut, "error: storage.kind:")
	assert.Contains(t, errOut, "error: runtime.batch_size:")
}

func TestValidate_UnreadableConfig(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "validate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDDL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "sqlite default",
			args: []string{"ddl"},
			want: []string{
				`DROP TABLE IF EXISTS "py_stg_2019_Q1";`,
				`CREATE TABLE "py_stg_2019_Q1" (`,
				`"id" INTEGER PRIMARY KEY AUTOINCREMENT`,
				`"trip_duration" REAL`,
				`CREATE TABLE "py_stg_2020_Q1" (`,
				`CREATE TABLE "py_stg_MERGED_2019_2020" (`,
			},
		},
		{
			name: "postgres",
			args: []string{"ddl", "--kind", "postgres"},
			want: []string{
				`"id" BIGINT GENERATED ALWAYS AS IDENTITY NOT NULL`,
				`"start_latitude" DOUBLE PRECISION`,
				`CREATE TABLE "py_stg_MERGED_2019_2020" (`,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, _, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestDDL_UnknownKind(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, "ddl", "--kind", "oracle")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage.kind=oracle")
}

func TestFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "raw", "Divvy_Trips_2019_Q2.csv"), "x\n")
	cfgPath := filepath.Join(dir, "pipeline.json")
	writeFile(t, cfgPath, `{"data_dir": "`+filepath.ToSlash(dir)+`"}`)

	out, _, err := runCLI(t, "files", "--config", cfgPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "FILE")
	assert.Regexp(t, `^Divvy_Trips_2019_Q1\.csv\s+2019_Q1\s+divvy_2019\s+py_stg_2019_Q1\s+no$`, lines[1])
	assert.Regexp(t, `^Divvy_Trips_2019_Q2\.csv\s+2019_Q2\s+divvy_2019_q2\s+py_stg_2019_Q2\s+yes$`, lines[2])
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "raw", "Divvy_Trips_2020_Q1.csv"),
		"ride_id,rideable_type,started_at,ended_at,start_station_name,start_station_id,end_station_name,end_station_id,start_lat,start_lng,end_lat,end_lng,member_casual\n"+
			"EACB19130B0CDA4A,docked_bike,2020-01-21 20:06:59,2020-01-21 20:14:30,Western Ave & Leland Ave,239,Clark St & Leland Ave,326,41.9665,-87.6884,41.9671,-87.6674,member\n")
	cfgPath := filepath.Join(dir, "pipeline.yaml")
	writeFile(t, cfgPath, "job: e2e\n"+
		"data_dir: "+filepath.ToSlash(dir)+"\n"+
		"files:\n"+
		"  - name: Divvy_Trips_2020_Q1.csv\n"+
		"    mapping: divvy_2020\n"+
		"metrics:\n"+
		"  backend: none\n")

	out, _, err := runCLI(t, "run", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "py_stg_2020_Q1")
	assert.Contains(t, out, "merged into py_stg_MERGED_2019_2020: 1 rows")
	assert.Contains(t, out, "All files included in merge.")
	assert.FileExists(t, filepath.Join(dir, config.DefaultDBName))
}

func TestRun_NothingToMergeFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "pipeline.json")
	writeFile(t, cfgPath, `{"data_dir": "`+filepath.ToSlash(dir)+`", "metrics": {"backend": "none"}}`)

	out, _, err := runCLI(t, "run", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, out, "Skipped the following files:")
}

func TestExecute_ExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, execute(context.Background(), []string{"no-such-command"}))
}

func TestResolveMetrics(t *testing.T) {
	t.Parallel()

	env := func(kv map[string]string) func(string) string {
		return func(k string) string { return kv[k] }
	}

	tests := []struct {
		name string
		flag string
		cfg  config.Metrics
		env  map[string]string
		want metricsTarget
	}{
		{
			name: "nothing set",
			want: metricsTarget{Backend: "none"},
		},
		{
			name: "env backend and url",
			env:  map[string]string{"METRICS_BACKEND": "pushgateway", "PUSHGATEWAY_URL": "http://gw:9091"},
			want: metricsTarget{Backend: "pushgateway", URL: "http://gw:9091"},
		},
		{
			name: "config beats env",
			cfg:  config.Metrics{Backend: "pushgateway", PushgatewayURL: "http://cfg:9091"},
			env:  map[string]string{"METRICS_BACKEND": "datadog", "PUSHGATEWAY_URL": "http://gw:9091"},
			want: metricsTarget{Backend: "pushgateway", URL: "http://cfg:9091"},
		},
		{
			name: "flag beats config",
			flag: "none",
			cfg:  config.Metrics{Backend: "pushgateway"},
			want: metricsTarget{Backend: "none"},
		},
		{
			name: "pushgateway default url",
			cfg:  config.Metrics{Backend: "pushgateway"},
			want: metricsTarget{Backend: "pushgateway", URL: defaultPushgatewayURL},
		},
		{
			name: "datadog agent host",
			cfg:  config.Metrics{Backend: "datadog"},
			env:  map[string]string{"DD_AGENT_HOST": "agent"},
			want: metricsTarget{Backend: "datadog", Addr: "agent:8125"},
		},
		{
			name: "datadog agent host and port",
			cfg:  config.Metrics{Backend: "datadog"},
			env:  map[string]string{"DD_AGENT_HOST": "agent", "DD_DOGSTATSD_PORT": "9125"},
			want: metricsTarget{Backend: "datadog", Addr: "agent:9125"},
		},
		{
			name: "datadog default addr",
			cfg:  config.Metrics{Backend: "datadog"},
			want: metricsTarget{Backend: "datadog", Addr: "127.0.0.1:8125"},
		},
		{
			name: "datadog configured addr",
			cfg:  config.Metrics{Backend: "datadog", StatsdAddr: "statsd:8125"},
			env:  map[string]string{"DD_AGENT_HOST": "agent"},
			want: metricsTarget{Backend: "datadog", Addr: "statsd:8125"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveMetrics(tt.flag, tt.cfg, env(tt.env))
			assert.Equal(t, tt.want, got)
		})
	}
}
