// Package main provides the prodcat CLI entry point.
package main

import (
	"context"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prodcat/prodcat/internal/catalog"
	"github.com/prodcat/prodcat/internal/config"
	"github.com/prodcat/prodcat/internal/logging"
	"github.com/prodcat/prodcat/internal/metrics"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// .env is optional
	_ = godotenv.Load()

	a := &app{
		stdout:     stdout,
		stderr:     stderr,
		getenv:     os.Getenv,
		configPath: config.Path(),
		log:        logging.Nop(),
	}

	// cobra reads os.Args when given nil
	if args == nil {
		args = []string{}
	}

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	code := a.exitCode
	if err != nil {
		code = a.fail(err)
	}
	a.finish()
	return code
}

// app carries flag values and per-run state for one invocation.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	getenv     func(string) string
	configPath string

	name        string
	price       int64
	jsonOutput  bool
	onMalformed string
	strictExit  bool
	metricsFile string
	logLevel    string

	sortBy string
	desc   bool
	min    int64
	max    int64

	action     string
	dispatched bool
	cfg        *config.Config
	log        *zap.Logger
	metrics    *metrics.Metrics
	exitCode   int
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prodcat <file_name> <action>",
		Short: "Manage a flat-file product price catalog",
		Long: `prodcat keeps a list of products and integer prices in a text file,
one "name — price" line per product.

Actions:
  add     --name NAME --price PRICE   append a product
  update  --name NAME --price PRICE   change the price of the first match
  delete  --name NAME                 remove every product with that name
  sum                                 print the total of all prices
  list    [--sort name|price] [--desc] [--min N] [--max N]
  stats                               count, sum, min, max and average price

Every add, update and delete rewrites the whole file.`,
		Example: `  prodcat shop.txt add --name Widget --price 10
  prodcat shop.txt update --name Widget --price 15
  prodcat shop.txt sum`,
		Args:          cobra.ExactArgs(2),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.dispatch(cmd, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.name, "name", "", "Name of the product")
	f.Int64Var(&a.price, "price", 0, "Price of the product (for add or update)")
	f.StringVar(&a.sortBy, "sort", "", "Sort list output by name or price (default: file order)")
	f.BoolVar(&a.desc, "desc", false, "Reverse list order")
	f.Int64Var(&a.min, "min", 0, "Only list products priced at least this much")
	f.Int64Var(&a.max, "max", 0, "Only list products priced at most this much")

	f.BoolVar(&a.jsonOutput, "json", false, "Output JSON instead of plain text")
	f.StringVar(&a.onMalformed, "on-malformed", "", "What to do with unparseable lines: abort or skip")
	f.BoolVar(&a.strictExit, "strict-exit", false, "Exit non-zero on usage errors")
	f.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the command")
	f.StringVar(&a.logLevel, "log-level", "", "Log level for stderr diagnostics (default warn)")

	return cmd
}

// setup resolves configuration (flag > env > config file > default) and
// builds the logger and metrics.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(a.getenv); err != nil {
		return err
	}

	f := cmd.Flags()
	if f.Changed("on-malformed") {
		cfg.OnMalformed = a.onMalformed
	}
	if f.Changed("strict-exit") {
		cfg.StrictExit = a.strictExit
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile = a.metricsFile
	}
	if f.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return &usageError{msg: err.Error()}
	}
	a.cfg = cfg

	log, err := logging.New("prodcat", cfg.LogLevel, a.stderr)
	if err != nil {
		return err
	}
	a.log = log

	if cfg.MetricsFile != "" {
		a.metrics = metrics.New()
	}
	return nil
}

// openStore loads the catalog file with the configured malformed-line policy.
func (a *app) openStore(path string) (*catalog.Store, error) {
	s, err := catalog.Open(path, catalog.LoadOptions{
		OnMalformed: a.cfg.Policy(),
		Logger:      a.log,
	})
	if err != nil {
		return nil, err
	}
	if s.Skipped() > 0 {
		a.log.Warn("malformed lines skipped", zap.String("path", path), zap.Int("skipped", s.Skipped()))
	}
	return s, nil
}

// finish writes the metrics file, if configured, and flushes the logger.
func (a *app) finish() {
	if a.metrics != nil && a.cfg != nil && a.cfg.MetricsFile != "" {
		if err := a.metrics.WriteFile(a.cfg.MetricsFile); err != nil {
			a.log.Error("writing metrics", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
