package core

import (
	"bufio"
	"os"

	"github.com/strandmesh/strand/protocol"
	"github.com/strandmesh/strand/state"
)

// Exec applies one parsed command to the routing state. The caller must hold
// the state lock. The returned error is fatal to the node: today that is
// only a malformed UPDATE payload.
func Exec(rs *state.RoutingState, e Emitter, c *protocol.Command) error {
	switch c.Kind {
	case protocol.Update:
		return ApplyUpdate(rs, e, c.Source, c.Routes)
	case protocol.Change:
		Change(rs, e, c.Nodes[0], c.Cost)
	case protocol.Fail:
		Fail(rs, e, c.Nodes[0])
	case protocol.Recover:
		Recover(rs, e, c.Nodes[0])
	case protocol.Query:
		QueryPath(rs, e, rs.Self, c.Nodes[0])
	case protocol.QueryPath:
		if len(c.Nodes) == 2 {
			QueryPath(rs, e, c.Nodes[0], c.Nodes[1])
		} else {
			QueryPath(rs, e, rs.Self, c.Nodes[0])
		}
	case protocol.Merge:
		Merge(rs, e, c.Nodes[0], c.Nodes[1])
	case protocol.Split:
		Split(rs, e)
	case protocol.Reset:
		Reset(rs, e)
	case protocol.CycleDetect:
		CycleDetect(rs, e)
	case protocol.BatchUpdate:
		return BatchApply(rs, e, c.File)
	}
	return nil
}

// BatchApply reads a command file and applies each parseable line in order.
// Unparseable lines are skipped; a malformed UPDATE payload inside the batch
// still aborts it, per the update contract.
func BatchApply(rs *state.RoutingState, e Emitter, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		cmd, err := protocol.Parse(scanner.Text())
		if err != nil || cmd == nil {
			continue
		}
		if err := Exec(rs, e, cmd); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	e.Announce("Batch update complete.")
	return nil
}
