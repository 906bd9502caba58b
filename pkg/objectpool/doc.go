// Package objectpool implements an owning lifetime container for
// heterogeneously typed objects. It ties the lifetime of many independently
// allocated objects to a single Pool value so that they are released
// together, in reverse acceptance order, when the pool is cleared.
//
// # Overview
//
// Code that builds long-lived computation state often allocates many objects
// of unrelated types that must all outlive the computation and be torn down
// exactly once. Tracking each one individually is error prone. A Pool accepts
// ownership of any object, erases its type behind a release capability
// captured at acceptance time, and guarantees a deterministic bulk teardown.
//
// Core Types:
//
//   - Pool: the owning container; zero value ready to use
//   - Releaser: optional teardown hook detected at acceptance
//   - Stats: lifetime counters for monitoring
//
// # Basic Usage
//
//	pool := objectpool.New()
//	defer pool.Clear()
//
//	// Register and use in one expression. The pool now owns state.
//	state := objectpool.Add(pool, newScanState())
//
//	// Slices get element-wise teardown in reverse index order.
//	rows := objectpool.AddSlice(pool, make([]rowBuffer, 1024))
//
//	// Resources with open handles are closed on teardown.
//	f := pool.AddCloser(file)
//
//	// Arbitrary release behavior supplied by the caller.
//	pool.Defer(func() error { return region.Unmap() })
//
// # Teardown Order
//
// Clear releases entries in the exact reverse of acceptance order. Objects
// accepted later may hold references into objects accepted earlier, so the
// later objects are torn down first and never observe a released dependency.
// After a clear the pool is empty; a second clear performs zero release
// calls. There is no individual deallocation and no reuse of released
// entries. Use Clear for bulk cleanup and create a fresh pool, or keep using
// the same pool, for the next lifetime.
//
// # Ownership Transfer
//
// AcquireData moves every entry from a donor pool to the tail of the
// receiver, leaving the donor empty without releasing anything. This merges
// the lifetimes of objects built in a transient local pool into a
// longer-lived one:
//
//	local := objectpool.New()
//	buildPlanFragments(local)
//	queryPool.AcquireData(local) // local is now empty
//
// # Thread Safety
//
// Accept operations, Clear, Close and Size are safe for concurrent use; a
// single mutex guards the entry sequence. Release capabilities run outside
// the lock, so a release may call Clear on its own pool and observe a no-op
// rather than a deadlock. AcquireData takes only the receiver's lock: the
// donor must not be concurrently mutated during the transfer.
//
// # Observability
//
// Pools created with NewNamed report acceptance, release, transfer and
// teardown-latency metrics through Prometheus under the pool label, and log
// teardowns at Debug level. Unnamed pools carry only their local Stats
// counters.
package objectpool
