package runtime

import (
	"regexp"
	"strings"

	"github.com/taskgrid/copilot/pkg/intent"
)

// StepPolicy decides whether a command is likely to need more than
// one tool round. Single-step commands may finish without a closing
// model call.
type StepPolicy interface {
	MultiStep(command string, cls intent.Classification) bool
}

// StepPolicyFunc adapts a function to the StepPolicy interface.
type StepPolicyFunc func(command string, cls intent.Classification) bool

func (f StepPolicyFunc) MultiStep(command string, cls intent.Classification) bool {
	return f(command, cls)
}

var (
	stepConnectors = regexp.MustCompile(`\b(?:then|also|after that|next)\b`)
	stepAndVerb    = regexp.MustCompile(`\band\s+(?:create|add|update|delete|remove|move|organize|build|make|set)\b`)
	stepStructure  = regexp.MustCompile(`\bwith\b|\bcolumns?\b|\bfields?\b|\brows?\b`)
)

type defaultStepPolicy struct{}

// DefaultStepPolicy treats a command as multi-step when it chains
// clauses, describes structure to fill in, or classifies into more
// than one action.
func DefaultStepPolicy() StepPolicy {
	return defaultStepPolicy{}
}

func (defaultStepPolicy) MultiStep(command string, cls intent.Classification) bool {
	lower := strings.ToLower(command)
	if stepConnectors.MatchString(lower) {
		return true
	}
	if stepAndVerb.MatchString(lower) {
		return true
	}
	if stepStructure.MatchString(lower) {
		return true
	}
	return len(cls.Actions) > 1
}
