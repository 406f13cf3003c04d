// Package trace records spans around hlrev's work: one span per CLI command,
// one per batch run and one per compiled root type.
//
// Enable it from the command line:
//
//	hlrev batch --trace=- --trace-level=detail graph.json
//
// Tracers:
//
//   - Nop: the disabled tracer
//   - StreamTracer: writes each event as it happens
//   - RingTracer: keeps the last N events for dumping after a failure
//   - MultiTracer: fans out to several tracers
//
// Levels gate scopes: LevelPhase shows commands, LevelDetail adds batch runs,
// LevelDebug adds every compiled type.
//
// Tracers travel in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeBatch, "batch", 0)
//	defer span.End("")
package trace
