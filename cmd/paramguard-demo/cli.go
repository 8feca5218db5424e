package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	"github.com/dmitrymomot/paramguard/pkg/config"
	"github.com/dmitrymomot/paramguard/pkg/httpserver"
	"github.com/dmitrymomot/paramguard/pkg/logger"
	"github.com/dmitrymomot/paramguard/pkg/requestid"
	"github.com/dmitrymomot/paramguard/pkg/validator"
)

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:  "paramguard-demo",
		Usage: "Demo API and tooling for paramguard validators",
		Commands: []*cli.Command{
			serveCmd(),
			formatsCmd(),
			checkCmd(),
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the demo HTTP API",
		Description: `Serves the demo API. Configuration is read from the environment
(PARAMGUARD_ENV, PARAMGUARD_LOG_LEVEL, PARAMGUARD_HTTP_ADDR, ...) and an
optional .env file. Validation failures are counted at /metrics.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address; overrides PARAMGUARD_HTTP_ADDR",
			},
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Env file to load before reading configuration; repeatable",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := config.LoadEnvFiles(cmd.StringSlice("env-file")...); err != nil {
				return err
			}
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}

			log := logger.New(
				logger.WithEnvironment(settings.Env, "paramguard-demo"),
				logger.WithLevel(logger.ParseLevel(settings.LogLevel)),
				logger.WithFormat(logger.ParseFormat(settings.LogFormat)),
				logger.WithValueLimit(settings.LogValueLimit),
				logger.WithContextExtractors(requestid.LoggerExtractor()),
			)
			logger.SetAsDefault(log)

			var srvCfg httpserver.Config
			if err := config.LoadWith(&srvCfg, env.Options{Prefix: config.EnvPrefix}); err != nil {
				return err
			}
			if addr := cmd.String("addr"); addr != "" {
				srvCfg.Addr = addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			api, err := newAPI(settings, log, reg)
			if err != nil {
				return fmt.Errorf("build validators: %w", err)
			}

			srv := httpserver.NewFromConfig(srvCfg, httpserver.WithLogger(log))
			return srv.Run(ctx, api.routes())
		},
	}
}

func formatsCmd() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "List the built-in value formats",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "samples",
				Value: 0,
				Usage: "Number of generated sample values to print per format",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			samples := cmd.Int("samples")
			if samples < 0 {
				return fmt.Errorf("samples must not be negative, got %d", samples)
			}

			tw := tabwriter.NewWriter(cmd.Root().Writer, 0, 4, 2, ' ', 0)
			for _, name := range validator.FormatNames() {
				f, _ := validator.LookupFormat(name)
				fmt.Fprintf(tw, "%s\t%s\n", f.Name, f.Pattern)
				for range samples {
					fmt.Fprintf(tw, "\t%s\n", f.Generate())
				}
			}
			return tw.Flush()
		},
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check a value against a built-in format",
		ArgsUsage: "<value>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "format",
				Aliases:  []string{"f"},
				Required: true,
				Usage:    "Format name, see the formats command",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			name := cmd.String("format")
			if _, ok := validator.LookupFormat(name); !ok {
				return fmt.Errorf("%w: unknown format %q", validator.ErrConfiguration, name)
			}
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one value, got %d", cmd.Args().Len())
			}
			value := cmd.Args().First()
			if !validator.MatchesFormat(name, value) {
				return fmt.Errorf("value %q does not match format %q", value, name)
			}
			_, err := fmt.Fprintf(cmd.Root().Writer, "ok: %q matches %s\n", value, name)
			return err
		},
	}
}
