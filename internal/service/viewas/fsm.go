package viewas

import (
	"context"
	"errors"
	"fmt"

	loopfsm "github.com/looplab/fsm"

	"github.com/jwalitptl/loyalty-admin-api/internal/model"
)

// events converts model.SessionTransitions into looplab/fsm EventDesc
// format, grouping transitions that share an event and destination.
var events = buildEvents()

func buildEvents() []loopfsm.EventDesc {
	type key struct {
		event string
		dst   string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range model.SessionTransitions {
		k := key{event: string(t.Event), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.event,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// applyTransition checks that event is valid from the current session
// state and returns the destination state. looplab/fsm is stateful, so
// a short-lived machine is seeded with the current state per call.
func applyTransition(ctx context.Context, current model.SessionState, event model.SessionEvent) (model.SessionState, error) {
	machine := loopfsm.NewFSM(string(current), events, nil)

	if err := machine.Event(ctx, string(event)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return "", fmt.Errorf("event %q is not valid from session state %q", event, current)
		}
		return "", err
	}

	return model.SessionState(machine.Current()), nil
}
