package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Keyer derives cache keys for backend responses.
type Keyer interface {
	// RequestKey identifies a GET request by endpoint and query.
	RequestKey(endpoint string, query url.Values) string
}

// DefaultKeyer hashes the request so that keys have a fixed length
// regardless of how long node ids or relation filters are.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// RequestKey returns "request:<endpoint>:<digest>". The query is encoded
// with sorted keys, so parameter order does not matter.
func (DefaultKeyer) RequestKey(endpoint string, query url.Values) string {
	endpoint = strings.Trim(endpoint, "/")
	return "request:" + endpoint + ":" + digest(endpoint+"?"+query.Encode())
}

// ScopedKeyer prefixes another keyer's keys, so two backends sharing one
// cache never read each other's payloads.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// BackendKeyer scopes the default keyer by backend host.
func BackendKeyer(host string) Keyer {
	return NewScopedKeyer(nil, "backend:"+host+":")
}

func (k *ScopedKeyer) RequestKey(endpoint string, query url.Values) string {
	return k.prefix + k.inner.RequestKey(endpoint, query)
}

// digest is the hex SHA-256 of s.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

var (
	_ Keyer = DefaultKeyer{}
	_ Keyer = (*ScopedKeyer)(nil)
)
