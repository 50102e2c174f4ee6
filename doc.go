// Package logger is the public entry point for the high-throughput
// asynchronous logging pipeline: a pool-backed bounded queue, a
// batch-draining worker pool, a priority-aware drop policy under
// overload, and a fatal-path bypass that never touches either.
//
// Most callers only need New, Emit/Emitf, and Close. The pipeline's
// internals — the slot pool, the bounded queue, the worker pool, the
// drop policy, the severity-tiered file sink — live in this module's
// pkg subdirectories and are assembled by pkg/manager; this package is a
// thin facade over a single process-wide Manager instance.
package logger
