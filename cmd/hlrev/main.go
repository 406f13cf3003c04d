package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"hlrev/internal/observ"
	"hlrev/internal/pattern"
	"hlrev/internal/prof"
	"hlrev/internal/project"
	"hlrev/internal/trace"
	"hlrev/internal/version"
)

// app is the state shared by one invocation's commands.
type app struct {
	log      *zap.Logger
	timer    *observ.Timer
	manifest *project.Manifest
	span     *trace.Span
	tracer   trace.Tracer
	profile  *prof.Session

	stopTracing func()
	closeOnce   sync.Once
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "hlrev",
		Short:         "Binary layout patterns for bytecode type graphs",
		Long:          `hlrev compiles the types of a bytecode module's type graph into struct/enum patterns for hex editors and memory inspectors.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if t, _ := cmd.Root().PersistentFlags().GetBool("timings"); t {
				fmt.Fprint(cmd.ErrOrStderr(), a.timer.Summary())
			}
			a.close()
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "path to hlrev.toml (default: search upwards from the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("log-level", "warn", "log level (debug|info|warn|error)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	root.AddCommand(
		newPatternCmd(a),
		newBatchCmd(a),
		newTypesCmd(a),
		newConvertCmd(a),
		newCacheCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	colorMode, _ := flags.GetString("color")
	switch colorMode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}

	levelStr, _ := flags.GetString("log-level")
	log, err := newLogger(cmd.ErrOrStderr(), levelStr)
	if err != nil {
		return err
	}
	a.log = log
	pattern.SetLogger(log)
	a.timer = observ.NewTimer()

	if err := a.startProfiling(cmd); err != nil {
		return err
	}

	stop, tracer, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	a.stopTracing = stop
	a.tracer = tracer

	if err := a.loadConfig(cmd); err != nil {
		return err
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeCommand, cmd.Name())
	cmd.SetContext(ctx)
	a.span = span
	return nil
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	if path != "" {
		m, err := project.LoadFile(path)
		if err != nil {
			return err
		}
		a.manifest = m
		return nil
	}
	m, found, err := project.Discover(".")
	if err != nil {
		return err
	}
	if found {
		a.log.Debug("config loaded", zap.String("path", m.Path))
	}
	a.manifest = m
	return nil
}

func (a *app) startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	cfg.CPU, _ = flags.GetString("cpu-profile")
	cfg.Mem, _ = flags.GetString("mem-profile")
	cfg.Trace, _ = flags.GetString("runtime-trace")
	if !cfg.Enabled() {
		return nil
	}
	s, err := prof.Start(cfg)
	if err != nil {
		return err
	}
	a.profile = s
	return nil
}

// close runs once per invocation, whether or not the command failed.
func (a *app) close() {
	a.closeOnce.Do(func() {
		if a.span != nil {
			a.span.End("")
		}
		if a.stopTracing != nil {
			a.stopTracing()
		}
		if err := a.profile.Stop(); err != nil && a.log != nil {
			a.log.Warn("profiling", zap.Error(err))
		}
		if a.log != nil {
			_ = a.log.Sync()
		}
		pattern.SetLogger(nil)
	})
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		dumpRing(a.tracer, stderr)
	}
	a.close()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}
