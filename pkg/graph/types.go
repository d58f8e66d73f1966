package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Payload - Wire Format
// =============================================================================

// Payload is the graph document returned by the knowledge-graph service.
// Links reference nodes by id value, never by index.
//
//	{
//	  "nodes": [{"id": "entropy", "group": "physics"}],
//	  "links": [{"source": "entropy", "target": "heat", "relation": "requires"}]
//	}
type Payload struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// =============================================================================
// Node, Group, Link
// =============================================================================

// Node is a concept in the knowledge graph.
type Node struct {
	ID    string `json:"id"`
	Group Group  `json:"group,omitempty"`
}

// Group is the color category of a node. The service emits it either as a
// string or as a number; both decode to the same canonical string.
type Group string

// UnmarshalJSON accepts JSON strings, numbers and null.
func (g *Group) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*g = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = Group(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("group must be a string or number: %w", err)
	}
	*g = Group(n.String())
	return nil
}

// MarshalJSON emits a group that is a JSON number literal ("3", "-1",
// "3.0") as that number, so a decoded payload round-trips. Anything else,
// including "007" and "+5", is a string.
func (g Group) MarshalJSON() ([]byte, error) {
	if isNumberLiteral(string(g)) {
		return []byte(g), nil
	}
	return json.Marshal(string(g))
}

func isNumberLiteral(s string) bool {
	if s == "" || strings.TrimSpace(s) != s || (s[0] != '-' && (s[0] < '0' || s[0] > '9')) {
		return false
	}
	return json.Valid([]byte(s))
}

// Link is a directed, labeled edge between two nodes.
type Link struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation,omitempty"`
}

// EdgeKey identifies one rendered edge. Parallel links between the same pair
// stay distinct through Relation, and exact duplicates through Seq.
type EdgeKey struct {
	Source   string
	Target   string
	Relation string
	Seq      int
}

// String returns a stable textual form, e.g. "a->b[requires]".
func (k EdgeKey) String() string {
	s := k.Source + "->" + k.Target + "[" + k.Relation + "]"
	if k.Seq > 0 {
		s += "#" + strconv.Itoa(k.Seq)
	}
	return s
}

// Edge is a resolved link: both endpoints are known node indices.
type Edge struct {
	Key    EdgeKey
	Source int
	Target int
}

// =============================================================================
// Loop - Cycle Highlight Target
// =============================================================================

// Loop is a directed cycle as returned by the loop query. The closing id
// (first == last) is optional. Relations, when present, run parallel to the
// consecutive pairs.
type Loop struct {
	Nodes     []string `json:"nodes"`
	Relations []string `json:"relations,omitempty"`
}

// Pair is a directed (source, target) node pair.
type Pair struct {
	Source string
	Target string
}

// Pairs returns the consecutive directed pairs of the loop in traversal
// order. A closing pair exists only if the input repeats the first id.
func (l Loop) Pairs() []Pair {
	if len(l.Nodes) < 2 {
		return nil
	}
	pairs := make([]Pair, 0, len(l.Nodes)-1)
	for i := 0; i < len(l.Nodes)-1; i++ {
		pairs = append(pairs, Pair{Source: l.Nodes[i], Target: l.Nodes[i+1]})
	}
	return pairs
}

// Closed reports whether the loop repeats its first node at the end.
func (l Loop) Closed() bool {
	return len(l.Nodes) > 1 && l.Nodes[0] == l.Nodes[len(l.Nodes)-1]
}

// LoopSet is the response of the loop query.
type LoopSet struct {
	Loops []Loop `json:"loops"`
	Error string `json:"error,omitempty"`
}
