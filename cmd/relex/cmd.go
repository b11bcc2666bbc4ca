package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/coregx/relex"
	"github.com/coregx/relex/internal/build"
	"github.com/coregx/relex/internal/config"
)

type options struct {
	configPath string
	lexer      string
	logLevel   string
	output     string
	workers    int

	newLogger func(level string) (*zap.Logger, error)
}

// newRootCmd returns the relex command tree. newLogger builds the logger
// once the log level is known.
func newRootCmd(newLogger func(level string) (*zap.Logger, error)) *cobra.Command {
	opts := &options{newLogger: newLogger}

	root := &cobra.Command{
		Use:           "relex",
		Short:         "Classify strings with regex lexers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "lexer definition file (yaml, json or toml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the config file")
	_ = root.MarkPersistentFlagRequired("config")

	root.AddCommand(newMatchCmd(opts), newCheckCmd(opts))
	return root
}

func newMatchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [input...]",
		Short: "Classify inputs with one lexer",
		Long: "Classify each argument, or each line of stdin when no argument is given,\n" +
			"and print one record per input in input order.",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer errRecover(&err)

			cfg, log, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			lexers, err := build.NewBuilder(build.Logger(log)).Build(cfg)
			if err != nil {
				return err
			}
			l, ok := lexers[opts.lexer]
			if !ok {
				return fmt.Errorf("relex: unknown lexer %q", opts.lexer)
			}

			inputs := args
			if len(inputs) == 0 {
				inputs, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}

			log.Info("matching",
				zap.String("lexer", opts.lexer),
				zap.Int("inputs", len(inputs)),
				zap.Int("workers", cfg.Workers),
			)
			records, err := classify(cmd.Context(), l, opts.lexer, inputs, cfg.Workers)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), cfg.Output, records)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.lexer, "lexer", "l", "", "name of the lexer to apply")
	f.IntVarP(&opts.workers, "workers", "w", 0, "concurrent matches; overrides the config file")
	f.StringVarP(&opts.output, "output", "o", "", "output format (json, yaml); overrides the config file")
	_ = cmd.MarkFlagRequired("lexer")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build every lexer and report definition errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			lexers, err := build.NewBuilder(build.Logger(log)).Build(cfg)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(lexers))
			for name := range lexers {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			for _, name := range names {
				fmt.Fprintf(out, "%s\t%s\n", name, describe(lexers[name]))
			}
			fmt.Fprintf(out, "ok: %d lexers\n", len(lexers))
			return nil
		},
	}
}

// setup loads the config, applies flag overrides and builds the logger.
func (o *options) setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := o.newLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func productionLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build(zap.Fields(zap.Int("pid", os.Getpid())))
}

func describe(l relex.Lexer[any]) string {
	if p, ok := l.(*relex.PatternLexer[any]); ok {
		return fmt.Sprintf("%d alternatives", p.Len())
	}
	return "composite"
}
