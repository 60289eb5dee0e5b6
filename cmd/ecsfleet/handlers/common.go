// Package handlers implements the CLI command logic: loading configuration
// and credentials, constructing the provider client and prober, and running
// reconciler operations.
package handlers

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/davidem/ecsfleet/internal/config"
	"github.com/davidem/ecsfleet/internal/metrics"
	"github.com/davidem/ecsfleet/internal/platform/seeweb"
	"github.com/davidem/ecsfleet/internal/probe"
	"github.com/davidem/ecsfleet/internal/reconcile"
)

// Factory function variables - can be replaced in tests.
var (
	newAPI = func(token string, log logr.Logger) seeweb.API {
		return seeweb.NewRealClient(token, log)
	}

	newProber = func(cfg *config.Config, timeouts *config.Timeouts) (probe.Prober, error) {
		if cfg.SSHPrivateKeyPath == "" {
			return nil, fmt.Errorf("ssh_private_key_path is required for readiness probes")
		}
		// #nosec G304
		key, err := os.ReadFile(cfg.SSHPrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read ssh private key: %w", err)
		}
		return probe.New(probe.Config{
			User:        cfg.SSHUser,
			PrivateKey:  key,
			DialTimeout: timeouts.ProbeDialTimeout,
			SSHTimeout:  timeouts.ProbeSSHTimeout,
		})
	}
)

// recorder registers collectors once; handlers may run repeatedly in tests.
var recorder = sync.OnceValue(func() metrics.Recorder {
	return metrics.NewPrometheusRecorder(prometheus.DefaultRegisterer)
})

func newLogger(verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: verbosity})
}

type deps struct {
	cfg        *config.Config
	timeouts   *config.Timeouts
	reconciler *reconcile.Reconciler
	log        logr.Logger
}

// buildDeps wires config, credentials, client, prober, and reconciler for
// one command invocation.
func buildDeps(configPath string, verbosity int, needProber bool) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	token, err := config.APIToken("")
	if err != nil {
		return nil, fmt.Errorf("resolve Seeweb credentials: %w", err)
	}

	log := newLogger(verbosity)
	timeouts := config.LoadTimeouts()
	api := newAPI(token, log)

	var prober probe.Prober
	if needProber {
		prober, err = newProber(cfg, timeouts)
		if err != nil {
			return nil, err
		}
	}

	return &deps{
		cfg:        cfg,
		timeouts:   timeouts,
		reconciler: reconcile.New(api, prober, cfg.FleetName, timeouts, recorder(), log),
		log:        log,
	}, nil
}
