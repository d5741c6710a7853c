package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taskgrid/copilot/pkg/catalog"
	"github.com/taskgrid/copilot/pkg/chat"
	"github.com/taskgrid/copilot/pkg/compact"
	"github.com/taskgrid/copilot/pkg/intent"
	"github.com/taskgrid/copilot/pkg/tools"
)

// lacksAccess spots the model claiming it cannot act because a tool is
// missing. That claim triggers the one-shot capability escalation even
// without an explicit requestCapabilities call.
var lacksAccess = regexp.MustCompile(`(?i)\b(?:don't|do not|doesn't|does not)\s+have\s+(?:access|the ability|a tool)|no\s+(?:tool|capability)\s+(?:available|to)`)

// loop runs the tool-calling conversation until a terminal state: a
// final answer, an early exit, a guard termination, or the ceiling.
func (s *session) loop(ctx context.Context) (*ExecutionResult, error) {
	cfg := s.runtime.cfg

	for iteration := 1; iteration <= cfg.MaxToolIterations; iteration++ {
		completion, err := s.modelRound(ctx, s.roundBudget())
		if err != nil {
			slog.Error("Model call failed", "iteration", iteration, "error", err)
			return failureResult(ErrCodeProvider, err.Error(), s.records), fmt.Errorf("model call: %w", err)
		}
		if completion.Usage != nil {
			s.emit(TokenUsage(completion.Usage))
		}

		if len(completion.ToolCalls) == 0 {
			if result, done := s.finalAnswer(completion.Content); done {
				return result, nil
			}
			continue
		}

		s.messages = append(s.messages, chat.AssistantMessage(completion.Content, completion.ToolCalls))

		results, err := s.dispatch(ctx, completion.ToolCalls)
		if err != nil {
			return failureResult(ErrCodeProvider, err.Error(), s.records), err
		}

		if result := s.foldRound(completion.ToolCalls, results); result != nil {
			return result, nil
		}

		if result := s.tryEarlyExit(completion.ToolCalls, results); result != nil {
			return result, nil
		}
	}

	slog.Warn("Iteration ceiling reached", "max", cfg.MaxToolIterations, "calls", len(s.records))
	s.emit(MaxIterationsReached(cfg.MaxToolIterations))
	msg := fmt.Sprintf("Command did not complete within %d tool rounds.", cfg.MaxToolIterations)
	return failureResult(ErrCodeMaxIterations, msg, s.records), nil
}

// roundBudget picks the token budget: tight while more tool rounds
// are expected, larger once this execution has tool results and the
// next response is likely the closing answer.
func (s *session) roundBudget() int {
	if s.toolsRan {
		return s.runtime.cfg.FinalRoundMaxTokens
	}
	return s.runtime.cfg.ToolRoundMaxTokens
}

// modelRound makes one model call, streaming or not depending on
// whether anyone is listening for events.
func (s *session) modelRound(ctx context.Context, maxTokens int) (*chat.Completion, error) {
	if s.events == nil {
		return s.runtime.provider.CreateChatCompletion(ctx, s.messages, s.selected, maxTokens)
	}
	return s.streamRound(ctx, maxTokens)
}

// streamRound consumes a streaming response, forwarding content deltas
// and partial tool calls, and reassembles the full completion.
func (s *session) streamRound(ctx context.Context, maxTokens int) (*chat.Completion, error) {
	stream, err := s.runtime.provider.CreateChatCompletionStream(ctx, s.messages, s.selected, maxTokens)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var content strings.Builder
	var usage *chat.Usage
	acc := newToolCallAccumulator()

	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				content.WriteString(choice.Delta.Content)
				s.emit(ContentDelta(choice.Delta.Content))
			}
			for _, delta := range choice.Delta.ToolCalls {
				acc.Add(delta)
				index := 0
				if delta.Index != nil {
					index = *delta.Index
				}
				if partial, ok := acc.Partial(index); ok {
					s.emit(PartialToolCall(partial))
				}
			}
		}
	}

	return &chat.Completion{
		Content:   content.String(),
		ToolCalls: acc.Calls(),
		Usage:     usage,
	}, nil
}

// mentionsCapability reports whether the text names something the
// catalog could actually provide: a tool by name or a workspace
// entity. A complaint about anything else (weather, web browsing) is
// not grounds for widening the tool set.
func (s *session) mentionsCapability(content string) bool {
	lower := strings.ToLower(content)
	for _, g := range s.runtime.registry.Groups() {
		for _, name := range s.runtime.registry.Group(g) {
			if strings.Contains(lower, strings.ToLower(name)) {
				return true
			}
		}
	}
	return len(intent.Classify(content).Entities) > 0
}

// finalAnswer handles a response without tool calls. done=false means
// a synthetic message was injected and the loop should continue.
func (s *session) finalAnswer(content string) (*ExecutionResult, bool) {
	if !s.escalated && lacksAccess.MatchString(content) && s.mentionsCapability(content) {
		slog.Debug("Model signaled missing capability, escalating", "content", content)
		s.messages = append(s.messages, chat.AssistantMessage(content, nil))
		s.widen()
		s.messages = append(s.messages, chat.UserMessage("All workspace tools are now available. Continue with the command."))
		return nil, false
	}

	if missing := s.batch.Missing(); len(missing) > 0 && !s.continued {
		slog.Debug("Batch incomplete, requesting continuation", "missing", len(missing))
		s.continued = true
		s.messages = append(s.messages, chat.AssistantMessage(content, nil))
		s.messages = append(s.messages, chat.UserMessage(continuationMessage(missing)))
		return nil, false
	}

	return successResult(content, s.records), true
}

// dispatch executes a round's tool calls concurrently. Results come
// back positionally so folding stays deterministic.
func (s *session) dispatch(ctx context.Context, calls []tools.ToolCall) ([]*tools.ToolCallResult, error) {
	results := make([]*tools.ToolCallResult, len(calls))
	args := make([]map[string]any, len(calls))

	for i, call := range calls {
		parsed := tools.ParseArguments(call.Function.Arguments)
		parsed = autofillArguments(s.runtime.registry, call.Function.Name, parsed, s.execCtx)
		parsed = harvestSearchIDs(call.Function.Name, parsed, s.records)
		args[i] = parsed
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		if call.Function.Name == catalog.EscalationTool {
			s.emit(ToolCall(call))
			results[i] = s.handleEscalation()
			continue
		}
		g.Go(func() error {
			s.emit(ToolCall(call))
			res, err := s.runtime.executor.ExecuteTool(gctx, call.Function.Name, args[i], s.execCtx)
			if err != nil {
				res = tools.ResultError(err.Error())
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range calls {
		calls[i].Function.Arguments = tools.MarshalArguments(args[i])
	}
	return results, nil
}

// handleEscalation grants the full catalog at most once.
func (s *session) handleEscalation() *tools.ToolCallResult {
	if s.escalated {
		return tools.ResultErrorHint(
			"capabilities were already expanded",
			"Proceed with the tools you have or report what cannot be done.")
	}
	s.widen()
	return tools.ResultSuccess(map[string]any{
		"granted": true,
		"message": "All workspace tools are now available.",
	})
}

// foldRound appends tool results to the conversation, applies the
// guards, and feeds the batch tracker. A non-nil result is terminal.
func (s *session) foldRound(calls []tools.ToolCall, results []*tools.ToolCallResult) *ExecutionResult {
	cfg := s.runtime.cfg
	s.toolsRan = true
	var terminal *ExecutionResult

	for i, call := range calls {
		name := call.Function.Name
		result := results[i]
		arguments := tools.ParseArguments(call.Function.Arguments)

		s.records = append(s.records, tools.ToolCallRecord{
			Tool:      name,
			Arguments: arguments,
			Result:    result,
		})
		s.emit(ToolCallResponse(call, result))

		switch name {
		case "searchTasks":
			s.batch.ObserveSearch(result)
		case "updateTask", "bulkUpdateTasks":
			if result != nil && result.Success {
				s.batch.ObserveUpdate(arguments)
			}
		}

		echoed := result
		if cfg.CompactToolResults {
			echoed = compact.Result(result, cfg.Compaction)
		}
		content, err := json.Marshal(echoed)
		if err != nil {
			content = []byte(`{"success":false,"error":"unserializable tool result"}`)
		}
		s.messages = append(s.messages, chat.ToolMessage(call.ID, name, string(content)))

		if terminal != nil {
			continue
		}
		if s.repeats.Observe(name, call.Function.Arguments) {
			slog.Warn("Repeated tool call, terminating", "tool", name)
			msg := fmt.Sprintf("Stopped: the %s call was repeated with identical arguments.", name)
			if result != nil && result.Success {
				msg += " The operation had already been applied."
			}
			terminal = failureResult(ErrCodeRepeatedToolCall, msg, s.records)
		} else if s.errors.Observe(name, result) {
			slog.Warn("Consecutive tool failures, terminating", "tool", name, "limit", cfg.ConsecutiveErrorLimit)
			msg := fmt.Sprintf("Stopped: %s failed %d times in a row.", name, cfg.ConsecutiveErrorLimit)
			terminal = failureResult(ErrCodeConsecutiveFailures, msg, s.records)
		}
	}

	if terminal != nil {
		terminal.ToolCallsMade = s.records
	}
	return terminal
}

// tryEarlyExit skips the closing model call when a fully-successful
// round plainly finished a single-step command. The synthesized
// summary replaces the model's restatement.
func (s *session) tryEarlyExit(calls []tools.ToolCall, results []*tools.ToolCallResult) *ExecutionResult {
	cfg := s.runtime.cfg
	if !cfg.SkipFinalModelCall || s.escalated || s.continued {
		return nil
	}
	if s.runtime.policy.MultiStep(s.command, s.cls) {
		return nil
	}
	wrote := false
	for i, call := range calls {
		if results[i] == nil || !results[i].Success {
			return nil
		}
		name := call.Function.Name
		if catalog.IsWrite(name) {
			wrote = true
		} else if !catalog.IsSearchLike(name) {
			return nil
		}
	}
	// A search-only round cannot finish a command that still intends
	// to mutate something.
	if s.cls.HasWriteAction() && !wrote {
		return nil
	}
	if len(s.batch.Missing()) > 0 {
		return nil
	}

	slog.Debug("Early exit after successful round", "calls", len(calls))
	return successResult(synthesizeSummary(s.records), s.records)
}
