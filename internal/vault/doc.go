// Package vault is the handle-based image cache.
//
// A Vault owns decoded pixel buffers keyed by opaque handles, tracks their
// byte footprint, and evicts the least recently used entries whenever the
// total exceeds the configured budget. Transforms replace an entry's buffer
// atomically: the pure algorithm from package imaging runs on a worker pool
// while the vault's exclusive lock is held, and the new buffer is installed
// only if it succeeds.
//
// # Access Order
//
// Loads and transforms mark a handle most recently used. Reads (Bytes,
// Dimensions, Stats, Contains) never do, so inspecting an image does not
// protect it from eviction.
//
// # Errors
//
// Errors carry github.com/jmgilman/go/errors codes with "handle" and
// "operation" context. Use IsNotFound, IsInvalidParameter, IsDecodeError,
// IsEncodeError and IsInternal to classify them.
package vault
