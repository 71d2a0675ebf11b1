// Package cache is a small file-backed JSON cache with per-entry TTL.
//
// grantdesk uses it to memoize critical request reads between CLI invocations
// when a user opts in with --cache-ttl or the cache config section. Entries
// live under ~/.grantdesk/cache/ as one JSON file per key; keys are SHA-256
// digests of the backend URL and resource path so that switching backends
// never serves another backend's data.
package cache
