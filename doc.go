// Package objectpool provides an owning lifetime container for
// heterogeneously typed heap objects: many independently allocated objects
// are tied to a single pool and released together, in reverse acceptance
// order, when the pool is cleared.
//
// The library is organized as focused packages:
//
//   - pkg/objectpool: the pool itself (type-erased ownership, captured
//     release capabilities, reverse-order teardown, bulk transfer)
//   - pkg/metrics: Prometheus collectors for pool observability
//   - pkg/logger: zap-based structured logging
//   - pkg/errors: structured error handling
//   - pkg/testutil: test helpers
//
// # Quick Start
//
//	import "github.com/wenzhenghu/objectpool/pkg/objectpool"
//
//	pool := objectpool.New()
//	defer pool.Clear()
//
//	// The pool owns state from here on; register and use in one expression.
//	state := objectpool.Add(pool, newQueryState())
//	buffers := objectpool.AddSlice(pool, make([]rowBuffer, 1024))
//	f := pool.AddCloser(spillFile)
//
// When the pool is cleared, spillFile is closed first, then the buffers are
// torn down element by element back to front, then state is released. See
// pkg/objectpool for the full contract.
package objectpool
