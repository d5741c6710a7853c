// Package fastpath executes a narrow class of commands directly,
// bypassing the model. A miss is cheap and always safe: the caller
// simply proceeds to the full conversation loop.
package fastpath

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/taskgrid/copilot/pkg/tools"
)

// Outcome is a successful fast-path execution.
type Outcome struct {
	Response string
	Records  []tools.ToolCallRecord
}

// Matcher holds the pattern table and the executor used to run the
// one or two calls a matched command needs.
type Matcher struct {
	executor tools.Executor
}

func New(executor tools.Executor) *Matcher {
	return &Matcher{executor: executor}
}

// multiStep rejects commands that need planning beyond one or two
// calls before any pattern matching happens.
var (
	multiStepConnectors = regexp.MustCompile(`\b(?:then|also|after that|next)\b`)
	andVerb             = regexp.MustCompile(`\band\s+(?:create|add|make|build|update|change|rename|edit|move|mark|assign|delete|remove|organi[sz]e|set)\b`)
	politeness          = regexp.MustCompile(`[\s,]*(?:please|thanks|thank you)[\s.!]*$`)
)

// Try attempts direct execution. ok=false means no pattern matched
// and the caller should run the full loop; an error with ok=true is a
// genuine fast-path failure.
func (m *Matcher) Try(ctx context.Context, command string, execCtx tools.ExecutionContext) (*Outcome, bool, error) {
	normalized := normalize(command)

	if multiStepConnectors.MatchString(normalized) || andVerb.MatchString(normalized) {
		slog.Debug("Fast path rejected multi-step command", "command", normalized)
		return nil, false, nil
	}

	if title, columns, ok := ParseTableSpec(normalized); ok {
		outcome, err := m.createTableWithColumns(ctx, title, columns, execCtx)
		return outcome, true, err
	}

	for _, p := range singleActionPatterns {
		matches := p.re.FindStringSubmatch(normalized)
		if matches == nil {
			continue
		}
		slog.Debug("Fast path matched single-action pattern", "tool", p.tool)
		outcome, err := m.runSingleAction(ctx, p, matches, execCtx)
		return outcome, true, err
	}

	return nil, false, nil
}

func normalize(command string) string {
	s := strings.TrimSpace(command)
	s = politeness.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// execute runs one tool and returns the audit record. The record is
// kept even when the tool fails.
func (m *Matcher) execute(ctx context.Context, name string, args map[string]any, execCtx tools.ExecutionContext) (tools.ToolCallRecord, error) {
	res, err := m.executor.ExecuteTool(ctx, name, args, execCtx)
	if err != nil {
		res = tools.ResultError(err.Error())
	}
	return tools.ToolCallRecord{Tool: name, Arguments: args, Result: res}, err
}

func (m *Matcher) createTableWithColumns(ctx context.Context, title string, columns []string, execCtx tools.ExecutionContext) (*Outcome, error) {
	createArgs := map[string]any{"title": title}
	if execCtx.CurrentTabID != "" {
		createArgs["tabId"] = execCtx.CurrentTabID
	}

	createRec, err := m.execute(ctx, "createTable", createArgs, execCtx)
	outcome := &Outcome{Records: []tools.ToolCallRecord{createRec}}
	if err != nil || !createRec.Result.Success {
		outcome.Response = fmt.Sprintf("Could not create table %q: %s", title, resultError(createRec.Result))
		return outcome, fmt.Errorf("creating table %q: %s", title, resultError(createRec.Result))
	}

	tableID := extractID(createRec.Result.Data, "tableId", "id")
	fields := make([]any, 0, len(columns))
	for _, col := range columns {
		fields = append(fields, map[string]any{"name": col})
	}
	fieldArgs := map[string]any{"tableId": tableID, "fields": fields}

	fieldsRec, err := m.execute(ctx, "bulkCreateFields", fieldArgs, execCtx)
	outcome.Records = append(outcome.Records, fieldsRec)
	if err != nil || !fieldsRec.Result.Success {
		outcome.Response = fmt.Sprintf("Created table %q but could not add columns: %s", title, resultError(fieldsRec.Result))
		return outcome, fmt.Errorf("adding columns to %q: %s", title, resultError(fieldsRec.Result))
	}

	outcome.Response = fmt.Sprintf("Created table %q with columns %s.", title, strings.Join(columns, ", "))
	return outcome, nil
}

func (m *Matcher) runSingleAction(ctx context.Context, p singleActionPattern, matches []string, execCtx tools.ExecutionContext) (*Outcome, error) {
	args := p.arguments(matches, execCtx)

	rec, err := m.execute(ctx, p.tool, args, execCtx)
	outcome := &Outcome{Records: []tools.ToolCallRecord{rec}}
	if err != nil || !rec.Result.Success {
		outcome.Response = fmt.Sprintf("Could not complete %s: %s", p.tool, resultError(rec.Result))
		return outcome, fmt.Errorf("%s failed: %s", p.tool, resultError(rec.Result))
	}

	outcome.Response = p.respond(matches, rec.Result)
	return outcome, nil
}

func resultError(res *tools.ToolCallResult) string {
	if res == nil {
		return "no result"
	}
	if res.Error != "" {
		return res.Error
	}
	return "unknown error"
}

// extractID digs a string id out of a tool result's data, trying the
// given keys in order.
func extractID(data any, keys ...string) string {
	obj, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range keys {
		if v, ok := obj[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
