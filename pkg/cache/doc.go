// Package cache stores backend responses so the explorer keeps working
// when the knowledge-graph backend is slow or down.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: a shared Redis server
//   - [NullCache]: caching disabled
//
// All implement [Cache]. [GetJSON] and [SetJSON] handle encoding.
//
// # Keys
//
// A [Keyer] derives keys from the request endpoint and query. Wrap it in a
// [ScopedKeyer] to separate backends that share one cache.
package cache
