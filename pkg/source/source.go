package source

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
)

const (
	// DefaultRadius is the neighborhood radius used when a Query centers on
	// a node but leaves Radius unset.
	DefaultRadius = 2

	// DefaultMaxCycles caps the number of loops the backend enumerates.
	DefaultMaxCycles = 200
)

// Neighborhood directions.
const (
	DirectionBoth = "both"
	DirectionIn   = "in"
	DirectionOut  = "out"
)

// Source produces graph payloads.
type Source interface {
	// Name identifies the source in logs and metrics, e.g. "http" or "file".
	Name() string

	// Fetch returns the payload for q. A zero Query asks for the full graph.
	Fetch(ctx context.Context, q Query) (graph.Payload, error)
}

// LoopFinder is implemented by sources that can enumerate directed cycles.
type LoopFinder interface {
	Loops(ctx context.Context, q LoopQuery) (graph.LoopSet, error)
}

// Query selects the part of the knowledge graph to load.
type Query struct {
	Center    string   // empty for the full graph
	Radius    int      // hops around Center
	Direction string   // "in", "out" or "both"
	Relations []string // keep only links with these relations; empty keeps all
}

// Full reports whether q asks for the whole graph.
func (q Query) Full() bool { return q.Center == "" }

// Normalize fills in the default radius and direction.
func (q Query) Normalize() Query {
	if q.Radius <= 0 {
		q.Radius = DefaultRadius
	}
	if q.Direction == "" {
		q.Direction = DirectionBoth
	}
	return q
}

// Validate checks a normalized query.
func (q Query) Validate() error {
	if q.Full() {
		return kgerrors.ValidateRelations(q.Relations)
	}
	if err := kgerrors.ValidateName("center", q.Center); err != nil {
		return err
	}
	if q.Radius < 1 {
		return kgerrors.New(kgerrors.ErrCodeInvalidQuery, "radius must be positive, got %d", q.Radius)
	}
	if err := kgerrors.ValidateDirection(q.Direction); err != nil {
		return err
	}
	return kgerrors.ValidateRelations(q.Relations)
}

// Values encodes the query the way the subgraph endpoint expects it.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Center != "" {
		v.Set("center", q.Center)
		v.Set("radius", strconv.Itoa(q.Radius))
		v.Set("direction", q.Direction)
	}
	if len(q.Relations) > 0 {
		v.Set("relations", strings.Join(q.Relations, ","))
	}
	return v
}

// LoopQuery bounds a loop search. Zero MaxLength means unbounded.
type LoopQuery struct {
	MaxLength int
	MaxCycles int
}

// Values encodes the query for the loops endpoint.
func (q LoopQuery) Values() url.Values {
	v := url.Values{}
	if q.MaxLength > 0 {
		v.Set("max_length", strconv.Itoa(q.MaxLength))
	}
	cycles := q.MaxCycles
	if cycles <= 0 {
		cycles = DefaultMaxCycles
	}
	v.Set("max_cycles", strconv.Itoa(cycles))
	return v
}

// Stats summarizes the backend graph.
type Stats struct {
	Nodes         int      `json:"nodes"`
	Edges         int      `json:"edges"`
	RelationTypes int      `json:"relation_types"`
	Relations     []string `json:"relations"`
}
