// ABOUTME: CLI entrypoint for deckforge: runs the enablement script and writes the presentation artifact.
// ABOUTME: Wires env defaults, cobra flags, the zap logger, the optional extra outputs, and the serve and history subcommands.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/2389-research/deckforge/assembler"
	"github.com/2389-research/deckforge/export"
	"github.com/2389-research/deckforge/history"
	"github.com/2389-research/deckforge/preview"
	"github.com/2389-research/deckforge/script"
	"github.com/2389-research/deckforge/theme"
	"github.com/2389-research/deckforge/web"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

func main() {
	loadDotEnv(".env")
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute parses env defaults and flags, runs the command, and returns the exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(stderr, renderError(err))
		return 1
	}

	cmd := newRootCmd(&cfg, stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderr, renderError(err))
		return 1
	}
	return 0
}

// newRootCmd builds the deckforge command tree. Flags override the env defaults already in cfg.
func newRootCmd(cfg *config, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deckforge [output.pptx]",
		Short: "Generate the CSFLE & Queryable Encryption enablement deck",
		Long: `deckforge assembles the MongoDB CSFLE & Queryable Encryption SA enablement
presentation from its slide script and writes it as a single .pptx file.

With no arguments the deck is written to ` + script.OutputName + `
in the working directory.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Output = args[0]
			}
			res, err := generate(*cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(stdout, renderReport(res))
			return nil
		},
	}

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&cfg.Theme, "theme", cfg.Theme, "YAML theme overriding the default palette, fonts, sizes, and grid")
	persistent.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "log every appended slide")
	persistent.StringVar(&cfg.History, "history", cfg.History, "SQLite ledger recording every generated deck")

	flags := cmd.Flags()
	flags.StringVar(&cfg.Outline, "outline", cfg.Outline, "also write a Markdown outline with speaker notes to this path")
	flags.StringVar(&cfg.Handout, "handout", cfg.Handout, "also write an HTML speaker handout to this path")
	flags.StringVar(&cfg.Preview, "preview", cfg.Preview, "also render one PNG preview per slide into this directory")

	cmd.AddCommand(newServeCmd(cfg, stdout), newHistoryCmd(cfg, stdout))
	return cmd
}

// newHistoryCmd builds "deckforge history", which lists recorded builds, or one build's
// slide index when given a build ID.
func newHistoryCmd(cfg *config, stdout io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [build-id]",
		Short: "List decks recorded in the --history ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.History == "" {
				return fmt.Errorf("no ledger configured: pass --history or set DECKFORGE_HISTORY")
			}
			ledger, err := history.OpenSqlite(cfg.History)
			if err != nil {
				return fmt.Errorf("history %s: %w", cfg.History, err)
			}
			defer func() { _ = ledger.Close() }()

			if len(args) == 1 {
				id, err := ulid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("build id %q: %w", args[0], err)
				}
				b, err := ledger.Get(id)
				if err != nil {
					return err
				}
				fmt.Fprint(stdout, renderBuild(b))
				return nil
			}
			builds, err := ledger.List(limit)
			if err != nil {
				return err
			}
			fmt.Fprint(stdout, renderHistory(builds))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of builds to list; 0 lists all")
	return cmd
}

// newServeCmd builds "deckforge serve", which assembles the deck in memory and serves it over HTTP.
func newServeCmd(cfg *config, stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the deck, its handout, and slide previews over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			a, _, err := assemble(*cfg, logger)
			if err != nil {
				return err
			}
			srv, err := web.NewServer(a, web.ServerConfig{
				Addr:     cfg.Addr,
				Filename: filepath.Base(cfg.Output),
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(stdout, renderServing(srv.Addr(), a.Len()))
			return srv.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	return cmd
}

// result is what a successful run produced.
type result struct {
	Output  string
	Slides  int
	Notes   int
	Extras  []string
	BuildID string
}

// generate runs the enablement script, writes any requested extras, and then writes the
// artifact. The .pptx is the last file written, so a failed run leaves no new deck behind.
func generate(cfg config) (res result, err error) {
	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return res, err
	}
	defer func() { _ = logger.Sync() }()

	buildID := ulid.Make()
	res.BuildID = buildID.String()
	logger = logger.With(zap.String("build", res.BuildID))

	a, th, err := assemble(cfg, logger)
	if err != nil {
		return res, err
	}
	output, err := filepath.Abs(cfg.Output)
	if err != nil {
		return res, fmt.Errorf("resolve %s: %w", cfg.Output, err)
	}

	var ledger *history.SqliteLedger
	if cfg.History != "" {
		ledger, err = history.OpenSqlite(cfg.History)
		if err != nil {
			return res, fmt.Errorf("history %s: %w", cfg.History, err)
		}
		defer func() { _ = ledger.Close() }()
	}

	pres := a.Presentation()
	if cfg.Outline != "" {
		if err := os.WriteFile(cfg.Outline, []byte(export.Markdown(pres)), 0o644); err != nil {
			return res, fmt.Errorf("write outline: %w", err)
		}
		res.Extras = append(res.Extras, cfg.Outline)
	}
	if cfg.Handout != "" {
		page, err := export.HTML(pres, export.HandoutStyle{
			Font:           th.Fonts.Body,
			Primary:        th.Palette.Primary,
			Dark:           th.Palette.Dark,
			CodeBackground: th.Palette.CodeBackground,
			CodeForeground: th.Palette.CodeForeground,
		})
		if err != nil {
			return res, err
		}
		if err := os.WriteFile(cfg.Handout, []byte(page), 0o644); err != nil {
			return res, fmt.Errorf("write handout: %w", err)
		}
		res.Extras = append(res.Extras, cfg.Handout)
	}
	if cfg.Preview != "" {
		paths, err := preview.WritePNGs(pres, cfg.Preview, preview.RenderWidth)
		if err != nil {
			return res, err
		}
		logger.Debug("previews rendered", zap.Int("count", len(paths)), zap.String("dir", cfg.Preview))
		res.Extras = append(res.Extras, cfg.Preview)
	}

	data, err := a.Bytes()
	if err != nil {
		return res, err
	}
	if err := a.WriteFile(output); err != nil {
		return res, err
	}
	if ledger != nil {
		build := history.NewBuild(buildID, pres, output, data, time.Now())
		if err := ledger.Record(build); err != nil {
			_ = os.Remove(output)
			return res, fmt.Errorf("history %s: %w", cfg.History, err)
		}
		logger.Debug("build recorded", zap.String("ledger", cfg.History))
	}

	res.Output = output
	res.Slides = a.Len()
	for _, s := range pres.Slides() {
		if s.HasNotes() {
			res.Notes++
		}
	}
	return res, nil
}

// assemble loads the theme and runs the enablement script into a fresh assembler.
func assemble(cfg config, logger *zap.Logger) (*assembler.Assembler, theme.Theme, error) {
	th := theme.Default()
	if cfg.Theme != "" {
		var err error
		th, err = theme.Load(cfg.Theme)
		if err != nil {
			return nil, th, err
		}
		logger.Debug("theme loaded", zap.String("path", cfg.Theme), zap.String("name", th.Name))
	}

	a, err := assembler.New(th,
		assembler.WithLogger(logger),
		assembler.WithTitle(script.DeckTitle),
		assembler.WithAuthor(script.DeckAuthor),
	)
	if err != nil {
		return nil, th, err
	}
	if err := script.Enablement(a); err != nil {
		return nil, th, err
	}
	return a, th, nil
}

// newLogger builds a production zap logger writing to stderr. Verbose lowers the level to debug;
// otherwise only lint warnings and errors are emitted.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
