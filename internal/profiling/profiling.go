// Package profiling starts the opt-in pprof listener and Pyroscope
// continuous profiler.
package profiling

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"runtime"
	"time"

	"github.com/grafana/pyroscope-go"

	"github.com/jonesrussell/portfolio/internal/config"
	"github.com/jonesrussell/portfolio/internal/logger"
)

const pprofReadHeaderTimeout = 5 * time.Second

// Profiler is a running Pyroscope session.
type Profiler struct {
	profiler *pyroscope.Profiler
}

// Stop flushes and stops the profiler. Safe on a nil receiver.
func (p *Profiler) Stop() error {
	if p == nil || p.profiler == nil {
		return nil
	}
	return p.profiler.Stop()
}

// PprofMux returns a mux serving the standard /debug/pprof endpoints.
func PprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// StartPprofServer serves pprof on localhost when enabled. It returns
// immediately; listen errors are logged.
func StartPprofServer(cfg config.ProfilingConfig, log logger.Logger) {
	if !cfg.Pprof {
		return
	}

	// localhost only: profiles must not be reachable from outside the host.
	addr := net.JoinHostPort("localhost", cfg.PprofPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           PprofMux(),
		ReadHeaderTimeout: pprofReadHeaderTimeout,
	}

	go func() {
		log.Info("Starting pprof server",
			logger.String("address", addr),
			logger.String("profiles", "http://"+addr+"/debug/pprof/"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server error", logger.Error(err))
		}
	}()
}

// StartPyroscope starts continuous profiling when enabled. It returns a nil
// Profiler and nil error when disabled.
func StartPyroscope(serviceName, version string, cfg config.ProfilingConfig, log logger.Logger) (*Profiler, error) {
	if !cfg.Continuous {
		return nil, nil //nolint:nilnil // disabled is not an error
	}

	if version == "" {
		version = "unknown"
	}

	pcfg := pyroscope.Config{
		ApplicationName: "portfolio." + serviceName,
		ServerAddress:   cfg.PyroscopeURL,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
		Tags: map[string]string{
			"environment": cfg.Environment,
			"version":     version,
			"hostname":    hostname(),
			"go_version":  runtime.Version(),
		},
	}

	p, err := pyroscope.Start(pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}

	log.Info("Pyroscope continuous profiling started",
		logger.String("application", pcfg.ApplicationName),
		logger.String("server", cfg.PyroscopeURL),
		logger.String("environment", cfg.Environment),
	)
	return &Profiler{profiler: p}, nil
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
