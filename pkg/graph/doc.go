// Package graph provides the knowledge-graph model shared by the layout,
// highlight and rendering engines.
//
// # Wire Format
//
// The graph service returns node-link documents:
//
//	{
//	  "nodes": [{"id": "entropy", "group": "physics"}, {"id": "heat", "group": 2}],
//	  "links": [{"source": "entropy", "target": "heat", "relation": "requires"}]
//	}
//
// [Payload] mirrors that document. Groups may be strings or numbers; both
// decode into a [Group].
//
// # Ingestion
//
// [Ingest] resolves a payload into an immutable [Graph]. Ingestion never
// fails on malformed content: duplicate ids keep the first occurrence and
// links with a dangling endpoint are dropped. The returned [IngestReport]
// counts what was discarded so callers can log it.
//
//	g, rep := graph.Ingest(payload)
//	if !rep.Clean() {
//	    logger.Debug("ingest", "dropped_links", rep.DroppedLinks)
//	}
//
// Each resolved [Edge] carries an [EdgeKey]. Parallel links between the same
// pair (for example "requires" and "extends") get distinct keys, so they are
// rendered as separate edges.
//
// # Loops
//
// A [Loop] is an ordered node-id sequence describing a directed cycle, used
// as a highlight target. [Loop.Pairs] yields its consecutive directed pairs.
//
// # Geometry
//
// [Point] and [Bounds] are the simulation-space primitives used for
// fit-to-graph calculations. Bounds ignore non-finite points; an empty
// graph yields bounds for which [Bounds.Valid] is false.
//
// # Concurrency
//
// A Graph is never mutated after Ingest and may be shared across goroutines.
package graph
