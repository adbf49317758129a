// Package errs holds the sentinel errors shared across the
// orchestration core, one per failure kind. Call sites wrap them with
// fmt.Errorf("%w: %s", sentinel, detail) so callers can branch with
// errors.Is while the message keeps the underlying detail.
package errs

import "errors"

// ErrConfig is a ConfigError: missing file, invalid schema, or missing
// env var. Fatal at startup.
var ErrConfig = errors.New("config error")

// ErrProtocol is a ProtocolError: an agent response failed JSON parse
// or schema validation. Fatal to the current cycle.
var ErrProtocol = errors.New("agent protocol error")

// ErrGuard is a GuardError: a patch touches a disallowed path, or the
// diff format is unrecognized. Fatal to the current cycle.
var ErrGuard = errors.New("workspace guard violation")

// ErrApply is an ApplyError: git apply exited non-zero. Fatal to the
// current cycle.
var ErrApply = errors.New("patch apply failed")

// ErrRun is a RunError: a sub-process failed to spawn, distinct from a
// successfully spawned command exiting non-zero. Recoverable — the
// cycle treats it as an ordinary test failure.
var ErrRun = errors.New("command run failed")

// ErrOscillation reports a detected builder-patch repetition.
var ErrOscillation = errors.New("oscillation detected")

// ErrIterationExhaustion reports the main loop reaching max_iterations
// without a terminal verdict.
var ErrIterationExhaustion = errors.New("iteration limit exhausted")
