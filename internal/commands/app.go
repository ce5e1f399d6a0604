// Package commands implements the stockdeal command-line interface.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaborage/stockdeal/config"
	"github.com/gaborage/stockdeal/httpclient"
	"github.com/gaborage/stockdeal/logger"
	"github.com/gaborage/stockdeal/notify"
	"github.com/gaborage/stockdeal/observability"
	"github.com/gaborage/stockdeal/stockdeal"
	"github.com/gaborage/stockdeal/store"
	"github.com/gaborage/stockdeal/trace"
)

// Options wires the CLI to its environment. Zero values use the process
// defaults.
type Options struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
	// Environ replaces os.Environ for configuration lookup
	Environ func() []string
	// IsTTY reports whether Stdout is an interactive terminal
	IsTTY func() bool
}

func (o *Options) applyDefaults() {
	if o.Version == "" {
		o.Version = "dev"
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Environ == nil {
		o.Environ = os.Environ
	}
	if o.IsTTY == nil {
		o.IsTTY = isTTY
	}
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	output     string
	jq         string
	base       string
	configFile string
	quiet      bool
}

// app holds everything a command needs once configuration is loaded.
type app struct {
	opts  Options
	flags globalFlags

	cfg      *config.Config
	log      logger.Logger
	provider observability.Provider
	traces   *trace.Persistent
	api      *stockdeal.Client
	out      *output
}

// setup loads configuration and builds the API client. It runs before
// every command.
func (a *app) setup(cmd *cobra.Command) error {
	if a.flags.output != formatJSON && a.flags.output != formatTable {
		return fmt.Errorf("invalid --output %q (want %s or %s)", a.flags.output, formatJSON, formatTable)
	}

	loadOpts := []config.Option{config.WithEnviron(a.opts.Environ)}
	if a.flags.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(a.flags.configFile))
	}
	if a.flags.base != "" {
		loadOpts = append(loadOpts, config.WithOverrides(map[string]any{"api.base": a.flags.base}))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.NewWithWriter(a.opts.Stderr, cfg.Log.Level, cfg.Log.Pretty, nil)

	a.provider, err = observability.NewProvider(&observability.Config{
		Enabled:     cfg.Observability.Enabled,
		Exporter:    cfg.Observability.Exporter,
		ServiceName: cfg.Observability.Service,
		Version:     a.opts.Version,
		Writer:      a.opts.Stderr,
	})
	if err != nil {
		return err
	}

	statePath := cfg.State.Path
	if statePath == "" {
		if statePath, err = store.DefaultPath(); err != nil {
			return err
		}
	}
	a.traces = trace.NewPersistent(store.NewFile(statePath))

	builder := httpclient.NewBuilder(a.log).
		WithBaseURL(cfg.API.Base).
		WithTimeout(cfg.API.Timeout).
		WithRetries(cfg.Retry.Count, cfg.Retry.Delay).
		WithDefaultHeader("User-Agent", "stockdeal-cli/"+a.opts.Version).
		WithNotifier(a.notifier()).
		WithTraceSource(a.traces).
		WithW3CTrace(cfg.Trace.W3C).
		WithPayloadLogging(cfg.Log.Payloads, 0).
		WithMeterProvider(a.provider.MeterProvider()).
		WithTracerProvider(a.provider.TracerProvider())
	if cfg.RateLimit.RPS > 0 {
		builder = builder.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	a.api = stockdeal.New(builder.Build())

	a.out = &output{
		w:      a.opts.Stdout,
		format: a.flags.output,
		jq:     a.flags.jq,
		tty:    a.opts.IsTTY(),
	}
	return nil
}

// notifier shows outcomes on the console; --quiet sends them to the log.
func (a *app) notifier() httpclient.Notifier {
	if a.flags.quiet {
		return notify.NewLog(a.log)
	}
	return notify.NewConsole(a.opts.Stderr)
}

// close flushes telemetry. It is safe to call when setup did not run.
func (a *app) close() error {
	if a.provider == nil {
		return nil
	}
	return observability.Shutdown(a.provider, 0)
}

// Execute runs the CLI with args and returns the command error.
func Execute(ctx context.Context, args []string, opts Options) error {
	root, a := newRoot(opts)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}
