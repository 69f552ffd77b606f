package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/strandmesh/strand/state"
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// GraphHarness records every side effect a graph operation requests.
type GraphHarness struct {
	actions []HarnessEvent
}

func (h *GraphHarness) Announce(line string) {
	h.actions = append(h.actions, MakeEvent("ANNOUNCE", line))
}

func (h *GraphHarness) RouteChanged() {
	h.actions = append(h.actions, MakeEvent("ROUTE_CHANGED"))
}

type HarnessEvents []HarnessEvent

func (e HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range e {
		cur := action.Message
		for _, arg := range action.Args {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}

func (h *GraphHarness) GetActions() HarnessEvents {
	x := h.actions
	h.actions = make([]HarnessEvent, 0)
	return x
}

func (h *GraphHarness) Lines() []string {
	lines := make([]string, 0)
	for _, action := range h.actions {
		if action.Message == "ANNOUNCE" {
			lines = append(lines, action.Args[0].(string))
		}
	}
	return lines
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e {
		if event.Message != msg || len(event.Args) < len(args) {
			continue
		}
		match := true
		for i, arg := range args {
			if !cmp.Equal(event.Args[i], arg) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	t.Helper()
	if e.contains(msg, args...) {
		t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
	}
}

// MakeState builds a routing state for node self with the given local row.
func MakeState(self state.NodeId, neighbours state.Row) *state.RoutingState {
	return state.NewRoutingState(self, neighbours)
}
