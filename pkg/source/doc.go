// Package source loads knowledge-graph payloads for the explorer.
//
// # Sources
//
// A [Source] returns a [graph.Payload] for a [Query]:
//
//   - [HTTPClient] talks to the explorer backend (/graph, /subgraph,
//     /loops, /stats) with retry and an offline cache fallback
//   - [FileSource] reads a JSON payload file and answers neighborhood
//     queries locally with [Extract]
//
// # Ordering
//
// Loads can overlap: a user may pick a new center before the previous
// fetch returns. [Loader] hands out a [Ticket] per load from an atomic
// counter and [Loader.Commit] accepts only the latest one, so a slow
// response never replaces a newer graph:
//
//	res := loader.Load(ctx, source.Query{Center: "Energy"})
//	if !loader.Commit(res) {
//	    return // a newer load was issued
//	}
//	if res.Err != nil {
//	    return res.Err
//	}
//	v.Load(res.Graph)
package source
