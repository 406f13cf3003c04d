package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"hlrev/internal/trace"
)

// setupTracing builds the tracer described by the --trace* flags and attaches
// it to the command context. The returned func stops and flushes it.
func setupTracing(cmd *cobra.Command) (func(), trace.Tracer, error) {
	flags := cmd.Root().PersistentFlags()
	output, _ := flags.GetString("trace")
	levelStr, _ := flags.GetString("trace-level")
	modeStr, _ := flags.GetString("trace-mode")
	formatStr, _ := flags.GetString("trace-format")
	ringSize, _ := flags.GetInt("trace-ring-size")
	heartbeat, _ := flags.GetDuration("trace-heartbeat")

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, err
	}
	// --trace alone means "show me the commands".
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, trace.Nop, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, err
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  heartbeat,
	}
	if output == "" || output == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	hb := trace.StartHeartbeat(tracer, cfg.Heartbeat)
	stop := func() {
		hb.Stop()
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return stop, tracer, nil
}

// dumpRing prints the in-memory trace after a failure.
func dumpRing(t trace.Tracer, w io.Writer) {
	ring, ok := trace.RingOf(t)
	if !ok {
		return
	}
	fmt.Fprintln(w, "trace (most recent events):")
	_ = ring.Dump(w, trace.FormatText)
}
