// Package cache provides a small TTL-since-write cache used to bound the
// upstream request rate. It is not a correctness mechanism: concurrent
// requests hitting an expired key are not coalesced, and callers must
// tolerate miss-triggered synchronous refresh latency.
package cache
