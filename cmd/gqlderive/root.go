package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hanpama/gqlderive/internal/compiler"
	"github.com/hanpama/gqlderive/internal/config"
	eventbus "github.com/hanpama/gqlderive/internal/eventbus"
	"github.com/hanpama/gqlderive/internal/host"
	"github.com/hanpama/gqlderive/internal/ir"
	"github.com/hanpama/gqlderive/internal/otel"
)

type cli struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	configFile string
	verbose    bool

	// discover builds the package loader for a configuration.
	discover  func(cfg *config.Config) (host.Discovery, error)
	// readFile reads sources for diagnostic code frames.
	readFile  func(name string) ([]byte, error)
	// newLogger builds the logger events are written to.
	newLogger func(verbose bool) (*zap.Logger, error)
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{
		v:         viper.New(),
		stdout:    stdout,
		stderr:    stderr,
		discover:  fileSystemDiscovery,
		readFile:  os.ReadFile,
		newLogger: newLogger,
	}
}

func fileSystemDiscovery(cfg *config.Config) (host.Discovery, error) {
	return host.NewFileSystemDiscovery(cfg.Dir, cfg.Packages)
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gqlderive",
		Short: "gqlderive derives a GraphQL schema from tagged Go declarations",
		Long: `gqlderive reads Go packages, collects declarations tagged with @gqlType, @gqlField
and the other @gql tags in their doc comments, and derives a GraphQL schema from them.

Settings are read from gqlderive.yaml (or .json, .toml) in the working directory,
from GQLDERIVE_* environment variables and from flags, in increasing precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default is ./gqlderive.yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log every compiler pass")
	flags.String("dir", ".", "directory package patterns are resolved in")
	flags.StringSlice("packages", []string{"./..."}, "package patterns to load")
	flags.Bool("nullable-by-default", false, "derive nullable output types unless @killsParentOnException is set")
	flags.Bool("report-type-errors", true, "fail on Go type-check errors")
	flags.String("otel-endpoint", "", "OTLP collector endpoint")
	flags.String("otel-service", "gqlderive", "OpenTelemetry service name")
	c.bind(flags.Lookup, map[string]string{
		"dir":                 "dir",
		"packages":            "packages",
		"nullable-by-default": "nullableByDefault",
		"report-type-errors":  "reportTypeErrors",
		"otel-endpoint":       "otel.endpoint",
		"otel-service":        "otel.service",
	})

	root.AddCommand(
		c.generateCmd(),
		c.checkCmd(),
		c.schemaCmd(),
		c.locateCmd(),
	)
	return root
}

// bind maps flag names to config keys.
func (c *cli) bind(lookup func(string) *pflag.Flag, keys map[string]string) {
	for name, key := range keys {
		_ = c.v.BindPFlag(key, lookup(name))
	}
}

// compile loads the configuration and runs the compiler with logging and tracing attached.
func (c *cli) compile(ctx context.Context, skipCodegen bool) (*compiler.Result, *config.Config, error) {
	cfg, err := config.Load(c.v, c.configFile, ".")
	if err != nil {
		return nil, nil, err
	}

	logger, err := c.newLogger(c.verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() // nolint

	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)
	defer subscribeLogger(logger)()

	shutdown, err := otel.Setup(cfg.Otel.Endpoint, cfg.Otel.Service)
	if err != nil {
		return nil, nil, fmt.Errorf("otel setup: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("failed to flush traces", zap.Error(err))
		}
	}()

	discovery, err := c.discover(cfg)
	if err != nil {
		return nil, nil, err
	}
	res, err := compiler.Compile(ctx, compiler.Options{
		Discovery:         discovery,
		Dir:               cfg.Dir,
		Patterns:          cfg.Packages,
		NullableByDefault: cfg.NullableByDefault,
		ReportTypeErrors:  cfg.ReportTypeErrors,
		PackagePath:       cfg.CodegenPackagePath,
		PackageName:       cfg.CodegenPackage,
		SchemaHeader:      cfg.SchemaHeader,
		CodegenHeader:     cfg.CodegenHeader,
		SkipCodegen:       skipCodegen,
	})
	if err != nil {
		return nil, cfg, c.report(err)
	}
	return res, cfg, nil
}

// execute runs the command line. Diagnostics are printed as they are reported; any other
// error is printed here.
func (c *cli) execute(args []string) error {
	root := c.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	var verr ir.ValidationError
	if err != nil && !errors.As(err, &verr) {
		fmt.Fprintf(c.stderr, "gqlderive: %v\n", err)
	}
	return err
}

// report prints diagnostics for a validation error and passes err through.
func (c *cli) report(err error) error {
	var verr ir.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	wd, _ := os.Getwd()
	printer := &diagnosticPrinter{w: c.stderr, readFile: c.readFile, wd: wd}
	printer.print(verr)
	return err
}

// outputPath resolves a configured output file against the package directory.
func outputPath(cfg *config.Config, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(cfg.Dir, name)
}
