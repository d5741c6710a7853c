// Package runtime orchestrates command execution: intent
// classification, the deterministic fast path, tool-set narrowing,
// and the multi-round tool-calling conversation with the model.
package runtime

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskgrid/copilot/pkg/catalog"
	"github.com/taskgrid/copilot/pkg/chat"
	"github.com/taskgrid/copilot/pkg/config"
	"github.com/taskgrid/copilot/pkg/fastpath"
	"github.com/taskgrid/copilot/pkg/intent"
	"github.com/taskgrid/copilot/pkg/model/provider"
	"github.com/taskgrid/copilot/pkg/tools"
	"github.com/taskgrid/copilot/pkg/toolset"
)

// Runtime executes natural-language commands against a workspace. It
// is safe for concurrent use: per-command state lives in a session.
type Runtime struct {
	cfg      *config.Config
	provider provider.Provider
	executor tools.Executor
	registry *catalog.Registry
	selector *toolset.Selector
	fastpath *fastpath.Matcher
	policy   StepPolicy

	fastPathEnabled bool
}

// Opt customizes a Runtime.
type Opt func(*Runtime)

// WithStepPolicy replaces the default multi-step heuristic.
func WithStepPolicy(p StepPolicy) Opt {
	return func(r *Runtime) { r.policy = p }
}

// WithRegistry replaces the default tool catalog.
func WithRegistry(reg *catalog.Registry) Opt {
	return func(r *Runtime) { r.registry = reg }
}

// WithoutFastPath disables the deterministic fast path; every command
// goes through the model.
func WithoutFastPath() Opt {
	return func(r *Runtime) { r.fastPathEnabled = false }
}

func New(cfg *config.Config, p provider.Provider, executor tools.Executor, opts ...Opt) *Runtime {
	r := &Runtime{
		cfg:             cfg,
		provider:        p,
		executor:        executor,
		registry:        catalog.NewRegistry(),
		policy:          DefaultStepPolicy(),
		fastPathEnabled: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.selector = toolset.New(r.registry, cfg.TrimToolsToIntent)
	r.fastpath = fastpath.New(executor)
	return r
}

// ExecuteCommand runs one command to completion and returns the
// terminal result. history carries prior conversation turns and may
// be nil. Guard terminations (repeats, error streaks, the iteration
// ceiling) come back as an unsuccessful result, not an error; the
// error return is reserved for provider failures.
func (r *Runtime) ExecuteCommand(ctx context.Context, command string, execCtx tools.ExecutionContext, history []chat.Message) (*ExecutionResult, error) {
	s := r.newSession(command, execCtx, history, nil)
	return s.run(ctx)
}

// ExecuteCommandStream runs one command, emitting events as execution
// progresses. The channel is closed after ExecutionComplete.
func (r *Runtime) ExecuteCommandStream(ctx context.Context, command string, execCtx tools.ExecutionContext, history []chat.Message) <-chan Event {
	events := make(chan Event, 16)
	s := r.newSession(command, execCtx, history, events)

	go func() {
		defer close(events)
		s.emit(StreamStarted(uuid.NewString()))
		result, err := s.run(ctx)
		if err != nil {
			s.emit(Error(err.Error()))
		}
		if result != nil {
			s.emit(ExecutionComplete(result))
		}
	}()

	return events
}

// session is the per-command execution state.
type session struct {
	runtime *Runtime
	command string
	execCtx tools.ExecutionContext
	history []chat.Message
	events  chan<- Event

	cls      intent.Classification
	selected []tools.Tool
	messages []chat.Message
	records  []tools.ToolCallRecord

	repeats   *repeatGuard
	errors    *errorTracker
	batch     *batchTracker
	escalated bool
	continued bool
	toolsRan  bool
}

func (r *Runtime) newSession(command string, execCtx tools.ExecutionContext, history []chat.Message, events chan<- Event) *session {
	return &session{
		runtime: r,
		command: command,
		execCtx: execCtx,
		history: history,
		events:  events,
		repeats: newRepeatGuard(r.cfg.RepeatCallThreshold),
		errors:  newErrorTracker(r.cfg.ConsecutiveErrorLimit),
		batch:   newBatchTracker(),
	}
}

func (s *session) emit(event Event) {
	if s.events != nil {
		s.events <- event
	}
}

func (s *session) run(ctx context.Context) (*ExecutionResult, error) {
	r := s.runtime

	s.cls = intent.Classify(s.command)
	slog.Debug("Classified command",
		"groups", s.cls.Groups,
		"confidence", s.cls.Confidence,
		"actions", s.cls.Actions)

	if r.fastPathEnabled {
		if result, handled := s.tryFastPath(ctx); handled {
			return result, nil
		}
	}

	s.selected = r.selector.Select(s.cls, s.command)

	s.messages = make([]chat.Message, 0, len(s.history)+2)
	s.messages = append(s.messages, chat.SystemMessage(systemPrompt))
	s.messages = append(s.messages, s.history...)
	s.messages = append(s.messages, chat.UserMessage(s.command))

	return s.loop(ctx)
}

// tryFastPath attempts deterministic execution. handled=true means the
// command is done, successfully or not, without any model call.
func (s *session) tryFastPath(ctx context.Context) (*ExecutionResult, bool) {
	outcome, matched, err := s.runtime.fastpath.Try(ctx, s.command, s.execCtx)
	if !matched {
		return nil, false
	}

	for _, record := range outcome.Records {
		s.emit(ToolCall(recordCall(record)))
		s.emit(ToolCallResponse(recordCall(record), record.Result))
	}

	if err != nil {
		slog.Warn("Fast path execution failed", "error", err)
		return &ExecutionResult{
			Success:       false,
			Response:      outcome.Response,
			ToolCallsMade: outcome.Records,
			Error:         err.Error(),
		}, true
	}

	slog.Debug("Fast path handled command", "calls", len(outcome.Records))
	return successResult(outcome.Response, outcome.Records), true
}

// recordCall reconstructs a dispatchable call view from an audit
// record for event emission.
func recordCall(record tools.ToolCallRecord) tools.ToolCall {
	args := tools.MarshalArguments(record.Arguments)
	return tools.ToolCall{
		Type:     "function",
		Function: tools.FunctionCall{Name: record.Tool, Arguments: args},
	}
}

// widen replaces the trimmed selection with the full catalog. Done at
// most once per command. The provider's schema conversion is memoized
// by signature, so the widened selection costs one conversion total.
func (s *session) widen() {
	var full []tools.Tool
	for _, g := range s.runtime.registry.Groups() {
		for _, name := range s.runtime.registry.Group(g) {
			if t, ok := s.runtime.registry.Tool(name); ok {
				full = append(full, t)
			}
		}
	}
	s.selected = full
	s.escalated = true
	slog.Debug("Escalated to full tool catalog", "tools", len(full))
}
