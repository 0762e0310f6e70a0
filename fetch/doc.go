// Package fetch downloads raw real-time feed data over HTTP with a bounded
// timeout. It returns raw bytes or a definite failure; retry policy, if any,
// belongs to the caller.
package fetch
