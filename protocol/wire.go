package protocol

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/strandmesh/strand/state"
)

// FormatCost renders a link cost for wire and console output. Integral
// values keep one decimal ("2.0", not "2") so a row always serializes to the
// same bytes no matter how its costs were produced.
func FormatCost(c float64) string {
	if c == math.Trunc(c) && !math.IsInf(c, 0) {
		return strconv.FormatFloat(c, 'f', 1, 64)
	}
	return strconv.FormatFloat(c, 'g', -1, 64)
}

// EncodeUpdate serializes one node's row as an UPDATE message. Entries are
// sorted by destination so the output is canonical: two equal rows always
// serialize identically.
func EncodeUpdate(id state.NodeId, row state.Row) string {
	dests := make([]state.NodeId, 0, len(row))
	for d := range row {
		dests = append(dests, d)
	}
	slices.Sort(dests)
	entries := make([]string, 0, len(dests))
	for _, d := range dests {
		e := row[d]
		entries = append(entries, fmt.Sprintf("%s:%s:%d", d, FormatCost(e.Cost), e.Port))
	}
	return fmt.Sprintf("UPDATE %s %s", id, strings.Join(entries, ","))
}

// ParseRoutes decodes an UPDATE route payload: comma-separated
// "dest:cost:port" entries. Any violation is a WireError, fatal to the
// process per the update contract.
func ParseRoutes(payload string) (state.Row, error) {
	routes := make(state.Row)
	for _, entry := range strings.Split(payload, ",") {
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, wireErr()
		}
		cost, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, wireErr()
		}
		port, err := strconv.ParseUint(parts[2], 10, 16)
		if err != nil || port == 0 {
			return nil, wireErr()
		}
		routes[state.NodeId(parts[0])] = state.Edge{Cost: cost, Port: uint16(port)}
	}
	return routes, nil
}
