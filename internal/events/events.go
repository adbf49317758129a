// Package events defines the outbound event channel described in the
// core's external interfaces: a tagged union of records the cycle state
// machine emits as it runs, consumed by a client-facing transport this
// package does not implement.
package events

import (
	"github.com/google/uuid"

	"github.com/sreeduggirala/checkmate/internal/message"
)

// Role identifies which agent produced a streamed chunk.
type Role string

const (
	RoleBuilder   Role = "builder"
	RoleReviewer  Role = "reviewer"
	RoleModerator Role = "moderator"
)

// Type discriminates the outbound event variants.
type Type string

const (
	TypeStatus            Type = "status"
	TypeStreamChunk       Type = "stream_chunk"
	TypePatchReady        Type = "patch_ready"
	TypeTestsOutput       Type = "tests_output"
	TypeReviewReady       Type = "review_ready"
	TypeModeratorDecision Type = "moderator_decision"
	TypeArbiterMode       Type = "arbiter_mode"
	TypeArbiterResult     Type = "arbiter_result"
	TypeDiagnosticRun     Type = "diagnostic_run"
	TypeCycleComplete     Type = "cycle_complete"
	TypeError             Type = "error"
)

// Event is the tagged-union record emitted on the outbound channel.
// Exactly one payload field is populated, selected by Type.
type Event struct {
	Type Type `json:"type"`

	// ID correlates this event with others from the same emission
	// (e.g. a UI de-duplicating a retried stream); generated fresh per
	// event, not threaded from any caller input.
	ID string `json:"id"`

	Status string `json:"status,omitempty"`

	StreamRole  Role   `json:"stream_role,omitempty"`
	StreamChunk string `json:"stream_chunk,omitempty"`

	Patch string `json:"patch,omitempty"`

	TestsStdout   string `json:"tests_stdout,omitempty"`
	TestsStderr   string `json:"tests_stderr,omitempty"`
	TestsExitCode int    `json:"tests_exit_code,omitempty"`

	Review message.Review `json:"review,omitempty"`

	ModeratorDecision message.ModeratorDecision `json:"moderator_decision,omitempty"`

	ArbiterIssue  message.Issue             `json:"arbiter_issue,omitempty"`
	ArbiterResult message.ArbiterTestResult `json:"arbiter_result,omitempty"`

	DiagnosticCommands []string `json:"diagnostic_commands,omitempty"`

	CycleSuccess    bool   `json:"cycle_success,omitempty"`
	CycleMessage    string `json:"cycle_message,omitempty"`
	CycleIterations int    `json:"cycle_iterations,omitempty"`

	Error string `json:"error,omitempty"`
}

// Sink receives events emitted during a cycle. Implementations forward
// them to the client-facing transport; the core never blocks or retries
// on a full sink, it is the sink's job to keep up.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// emit stamps a fresh correlation ID on e before handing it to sink.
func emit(sink Sink, e Event) {
	e.ID = uuid.New().String()
	sink.Emit(e)
}

// Status emits a status{message} event.
func Status(sink Sink, message string) {
	emit(sink, Event{Type: TypeStatus, Status: message})
}

// StreamChunk emits a stream_chunk{role,chunk} event.
func StreamChunk(sink Sink, role Role, chunk string) {
	emit(sink, Event{Type: TypeStreamChunk, StreamRole: role, StreamChunk: chunk})
}

// PatchReady emits a patch_ready{patch} event.
func PatchReady(sink Sink, patch string) {
	emit(sink, Event{Type: TypePatchReady, Patch: patch})
}

// TestsOutput emits a tests_output{stdout,stderr,exitCode} event.
func TestsOutput(sink Sink, stdout, stderr string, exitCode int) {
	emit(sink, Event{Type: TypeTestsOutput, TestsStdout: stdout, TestsStderr: stderr, TestsExitCode: exitCode})
}

// ReviewReady emits a review_ready{review} event.
func ReviewReady(sink Sink, review message.Review) {
	emit(sink, Event{Type: TypeReviewReady, Review: review})
}

// ModeratorDecisionEvent emits a moderator_decision{decision} event.
func ModeratorDecisionEvent(sink Sink, decision message.ModeratorDecision) {
	emit(sink, Event{Type: TypeModeratorDecision, ModeratorDecision: decision})
}

// ArbiterMode emits an arbiter_mode{issue} event.
func ArbiterMode(sink Sink, issue message.Issue) {
	emit(sink, Event{Type: TypeArbiterMode, ArbiterIssue: issue})
}

// ArbiterResult emits an arbiter_result{result} event.
func ArbiterResult(sink Sink, result message.ArbiterTestResult) {
	emit(sink, Event{Type: TypeArbiterResult, ArbiterResult: result})
}

// DiagnosticRun emits a diagnostic_run{commands[]} event.
func DiagnosticRun(sink Sink, commands []string) {
	emit(sink, Event{Type: TypeDiagnosticRun, DiagnosticCommands: commands})
}

// CycleComplete emits the single terminal success/failure event for a cycle.
func CycleComplete(sink Sink, success bool, message string, iterations int) {
	emit(sink, Event{Type: TypeCycleComplete, CycleSuccess: success, CycleMessage: message, CycleIterations: iterations})
}

// Error emits the single terminal error event for a cycle.
func Error(sink Sink, message string) {
	emit(sink, Event{Type: TypeError, Error: message})
}
