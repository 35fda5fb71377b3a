// Package assistant turns user utterances into flow handler calls.
// The flow engine owns every state transition; deciders only pick
// which bound handler fires next.
package assistant

import (
	"context"
	"errors"

	"github.com/brightsmile-dental/voice-assistant/internal/flow"
)

// ErrNoDecision is returned when the decider produced no handler
// call for the turn.
var ErrNoDecision = errors.New("assistant: no handler selected")

// Decision is the outcome of one user turn.
type Decision struct {
	Handler flow.HandlerName
	Args    flow.Args
	// Say is the assistant's spoken reply, when the decider produced
	// one alongside the handler call.
	Say string
}

// DecisionMaker picks a handler bound on the current node for the
// user's utterance.
type DecisionMaker interface {
	Decide(ctx context.Context, node flow.Node, utterance string) (Decision, error)
}

// Scripted replays a fixed list of decisions. Used by the simulator
// and in tests.
type Scripted struct {
	decisions []Decision
	next      int
}

// NewScripted builds a scripted decider.
func NewScripted(decisions ...Decision) *Scripted {
	return &Scripted{decisions: decisions}
}

// Decide returns the next scripted decision regardless of the
// utterance.
func (s *Scripted) Decide(ctx context.Context, node flow.Node, utterance string) (Decision, error) {
	if s.next >= len(s.decisions) {
		return Decision{}, ErrNoDecision
	}
	d := s.decisions[s.next]
	s.next++
	if !node.Bound(d.Handler) {
		return Decision{}, ErrNoDecision
	}
	return d, nil
}
