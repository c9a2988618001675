package main

import (
	"log"
	"net"
	"os"
	"strings"

	"github.com/roydale/case-study-01-cyclistic/internal/config"
	"github.com/roydale/case-study-01-cyclistic/internal/metrics"
	"github.com/roydale/case-study-01-cyclistic/internal/metrics/datadog"
	"github.com/roydale/case-study-01-cyclistic/internal/metrics/prompush"
)

const (
	defaultPushgatewayURL = "http://localhost:9091"
	defaultStatsdPort     = "8125"
)

// metricsTarget is the resolved backend selection.
type metricsTarget struct {
	Backend string
	URL     string // pushgateway base URL
	Addr    string // dogstatsd address
}

// resolveMetrics picks the backend and its endpoint: flag, then config, then
// environment (METRICS_BACKEND, PUSHGATEWAY_URL, DD_AGENT_HOST), then the
// built-in defaults.
func resolveMetrics(flagBackend string, m config.Metrics, getenv func(string) string) metricsTarget {
	t := metricsTarget{Backend: firstNonEmpty(flagBackend, m.Backend, getenv("METRICS_BACKEND"), "none")}

	switch t.Backend {
	case "pushgateway":
		t.URL = firstNonEmpty(m.PushgatewayURL, getenv("PUSHGATEWAY_URL"), defaultPushgatewayURL)
	case "datadog":
		t.Addr = m.StatsdAddr
		if t.Addr == "" {
			if host := strings.TrimSpace(getenv("DD_AGENT_HOST")); host != "" {
				port := firstNonEmpty(getenv("DD_DOGSTATSD_PORT"), defaultStatsdPort)
				t.Addr = net.JoinHostPort(host, port)
			}
		}
		if t.Addr == "" {
			t.Addr = net.JoinHostPort("127.0.0.1", defaultStatsdPort)
		}
	}
	return t
}

// setupMetrics installs the selected backend and returns a function that
// flushes it. Backend failures are logged and leave the nop backend in place.
func setupMetrics(flagBackend string, p config.Pipeline, verbose bool) func() {
	t := resolveMetrics(flagBackend, p.Metrics, os.Getenv)
	job := firstNonEmpty(p.Job, config.DefaultJob)

	var (
		b   metrics.Backend
		err error
	)
	switch t.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(job, t.URL)
		if err == nil {
			log.Printf("metrics: backend=pushgateway url=%s job_name=%s", t.URL, job)
		}
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       t.Addr,
			Namespace:  p.Metrics.Namespace,
			GlobalTags: p.Metrics.Tags,
		})
		if err == nil {
			log.Printf("metrics: backend=datadog addr=%s job_name=%s", t.Addr, job)
		}
	case "none":
		if verbose {
			log.Printf("metrics: disabled")
		}
		return func() {}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", t.Backend)
		return func() {}
	}
	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", t.Backend, err)
		return func() {}
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
