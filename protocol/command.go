package protocol

import (
	"strconv"
	"strings"

	"github.com/strandmesh/strand/state"
)

type Kind int

const (
	Update Kind = iota
	Change
	Fail
	Recover
	Query
	QueryPath
	Merge
	Split
	Reset
	CycleDetect
	BatchUpdate
)

// Command is one parsed administrative command or UPDATE message.
type Command struct {
	Kind Kind
	// Nodes holds the node arguments in order. QueryPath carries one
	// (destination, source implied) or two (source, destination).
	Nodes []state.NodeId
	// Cost is the new link cost for Change.
	Cost float64
	// Source and Routes carry the UPDATE sender and its raw route payload.
	// The payload is decoded at apply time, where violations are fatal.
	Source state.NodeId
	Routes string
	// File is the batch command file for BatchUpdate.
	File string
}

func checkNodeId(tok string) error {
	if !state.ValidNodeId(tok) {
		return syntaxf("Error: Invalid command format. Expected a valid Node-ID.")
	}
	return nil
}

// Parse turns one input line into a typed command. An empty or
// whitespace-only line yields (nil, nil). Unknown commands and arity or type
// violations yield a SyntaxError.
func Parse(line string) (*Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, nil
	}

	switch tokens[0] {
	case "UPDATE":
		if len(tokens) != 3 {
			return nil, syntaxf("Error: Invalid update packet format.")
		}
		return &Command{Kind: Update, Source: state.NodeId(tokens[1]), Routes: tokens[2]}, nil

	case "CHANGE":
		if len(tokens) != 3 {
			return nil, syntaxf("Error: Invalid command format. Expected exactly two tokens after CHANGE.")
		}
		if err := checkNodeId(tokens[1]); err != nil {
			return nil, err
		}
		cost, err := strconv.ParseFloat(tokens[2], 64)
		if err != nil {
			return nil, syntaxf("Error: Invalid command format. Expected numeric cost value.")
		}
		return &Command{Kind: Change, Nodes: []state.NodeId{state.NodeId(tokens[1])}, Cost: cost}, nil

	case "FAIL":
		if len(tokens) != 2 {
			return nil, syntaxf("Error: Invalid command format. Expected: FAIL <Node-ID>.")
		}
		if err := checkNodeId(tokens[1]); err != nil {
			return nil, err
		}
		return &Command{Kind: Fail, Nodes: []state.NodeId{state.NodeId(tokens[1])}}, nil

	case "RECOVER":
		if len(tokens) != 2 {
			return nil, syntaxf("Error: Invalid command format. Expected: RECOVER <Node-ID>.")
		}
		if err := checkNodeId(tokens[1]); err != nil {
			return nil, err
		}
		return &Command{Kind: Recover, Nodes: []state.NodeId{state.NodeId(tokens[1])}}, nil

	case "QUERY":
		switch {
		case len(tokens) == 2:
			if err := checkNodeId(tokens[1]); err != nil {
				return nil, err
			}
			return &Command{Kind: Query, Nodes: []state.NodeId{state.NodeId(tokens[1])}}, nil
		case len(tokens) == 3 && tokens[1] == "PATH":
			if err := checkNodeId(tokens[2]); err != nil {
				return nil, err
			}
			return &Command{Kind: QueryPath, Nodes: []state.NodeId{state.NodeId(tokens[2])}}, nil
		case len(tokens) == 4 && tokens[1] == "PATH":
			if err := checkNodeId(tokens[2]); err != nil {
				return nil, err
			}
			if err := checkNodeId(tokens[3]); err != nil {
				return nil, err
			}
			return &Command{Kind: QueryPath, Nodes: []state.NodeId{state.NodeId(tokens[2]), state.NodeId(tokens[3])}}, nil
		default:
			return nil, syntaxf("Error: Invalid command format. Expected a valid Destination.")
		}

	case "MERGE":
		if len(tokens) != 3 {
			return nil, syntaxf("Error: Invalid command format. Expected two valid identifiers for MERGE.")
		}
		if err := checkNodeId(tokens[1]); err != nil {
			return nil, err
		}
		if err := checkNodeId(tokens[2]); err != nil {
			return nil, err
		}
		return &Command{Kind: Merge, Nodes: []state.NodeId{state.NodeId(tokens[1]), state.NodeId(tokens[2])}}, nil

	case "SPLIT":
		if len(tokens) != 1 {
			return nil, syntaxf("Error: Invalid command format. Expected exactly: SPLIT.")
		}
		return &Command{Kind: Split}, nil

	case "RESET":
		if len(tokens) != 1 {
			return nil, syntaxf("Error: Invalid command format. Expected exactly: RESET.")
		}
		return &Command{Kind: Reset}, nil

	case "CYCLE":
		if len(tokens) > 1 && tokens[1] == "DETECT" {
			if len(tokens) != 2 {
				return nil, syntaxf("Error: Invalid command format. Expected exactly: CYCLE DETECT.")
			}
			return &Command{Kind: CycleDetect}, nil
		}

	case "BATCH":
		if len(tokens) > 1 && tokens[1] == "UPDATE" {
			if len(tokens) != 3 {
				return nil, syntaxf("Error: Invalid command format. Expected: BATCH UPDATE <Filename>.")
			}
			return &Command{Kind: BatchUpdate, File: tokens[2]}, nil
		}
	}

	return nil, syntaxf("Error: Unknown command: %s", tokens[0])
}
