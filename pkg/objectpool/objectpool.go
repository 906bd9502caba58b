package objectpool

import (
	"errors"
	"io"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	poolerrors "github.com/wenzhenghu/objectpool/pkg/errors"
	"github.com/wenzhenghu/objectpool/pkg/logger"
	"github.com/wenzhenghu/objectpool/pkg/metrics"
)

// Releaser is the interface implemented by objects that need explicit
// teardown when their owning pool is cleared. Release is invoked exactly
// once, from the goroutine performing the clear.
type Releaser interface {
	Release()
}

// releaseFn is a generic release capability. It receives the entry's owned
// object and performs the destruction captured at acceptance time.
type releaseFn func(obj any) error

// entry pairs one owned object with the release capability captured when the
// object was accepted.
type entry struct {
	obj     any
	release releaseFn
}

// Pool is an owning container for heterogeneously typed objects. It ties the
// lifetime of many independently allocated objects to a single value so they
// are released together, in reverse acceptance order, when the pool is
// cleared or closed.
//
// The zero value is an empty pool ready for use. Pools must not be copied
// after first use.
//
// All mutating operations are safe for concurrent use. The release
// capabilities themselves run outside the pool's lock, so a release may
// safely call Clear or Close on its own pool; the reentrant call observes an
// already emptied pool and is a no-op.
type Pool struct {
	mu      sync.Mutex
	entries []entry

	name      string
	logger    *zap.Logger
	collector *metrics.Collector

	stats struct {
		accepted    int64
		released    int64
		transferred int64
		clears      int64
	}
}

// Stats is a snapshot of a pool's lifetime counters.
type Stats struct {
	// Accepted is the total number of entries accepted by the pool
	Accepted int64
	// Released is the total number of entries released by teardown
	Released int64
	// Transferred is the total number of entries received via AcquireData
	Transferred int64
	// Clears is the number of non-empty teardowns performed
	Clears int64
}

// New creates an empty, unnamed pool. Unnamed pools do not report Prometheus
// metrics; use NewNamed for pools that should be observable.
func New() *Pool {
	return &Pool{}
}

// NewNamed creates an empty pool that reports ownership metrics under the
// given pool label. All pools sharing a name aggregate into the same series.
func NewNamed(name string) *Pool {
	return &Pool{
		name:      name,
		collector: metrics.NewCollector(name),
	}
}

// Name returns the pool's metric label, or the empty string for unnamed pools.
func (p *Pool) Name() string {
	return p.name
}

// WithLogger sets the logger used for teardown reporting and returns p.
// When unset, the pool logs through the global logger.
func (p *Pool) WithLogger(l *zap.Logger) *Pool {
	p.logger = l
	return p
}

// log returns the pool's logger, falling back to the global one.
func (p *Pool) log() *zap.Logger {
	if p.logger != nil {
		return p.logger
	}
	return logger.Get()
}

// Add transfers ownership of obj to the pool and returns obj unchanged, so
// call sites can register and use in one expression:
//
//	state := objectpool.Add(pool, NewQueryState())
//
// The release capability is captured from the concrete type at acceptance
// time: if *T implements Releaser its Release method is invoked on teardown,
// else if it implements io.Closer its Close method is invoked, otherwise the
// pool's reference is simply dropped so the object becomes collectable.
//
// A nil obj is accepted and releases as a no-op. After Add the caller must
// not release obj itself or register it with another pool.
func Add[T any](p *Pool, obj *T) *T {
	p.accept(entry{obj: obj, release: scalarRelease(obj)})
	return obj
}

// AddSlice transfers ownership of the slice s to the pool and returns s
// unchanged. The captured release capability applies each element's release
// behavior (Releaser, then io.Closer, detected per element) in reverse index
// order before dropping the slice, mirroring how Add tears down a single
// object. A nil slice is accepted and releases as a no-op, and nil elements
// are skipped the way Add skips a nil obj.
func AddSlice[T any](p *Pool, s []T) []T {
	p.accept(entry{obj: s, release: sliceRelease[T]})
	return s
}

// AddCloser transfers ownership of c to the pool and returns it unchanged.
// Teardown invokes c.Close exactly once; a non-nil error is reported through
// Close or logged by Clear. A nil closer is accepted and releases as a no-op.
func (p *Pool) AddCloser(c io.Closer) io.Closer {
	var release releaseFn
	if !isNil(c) {
		release = func(o any) error { return o.(io.Closer).Close() }
	}
	p.accept(entry{obj: c, release: release})
	return c
}

// Defer registers a caller-supplied release capability with no associated
// object. Use this when the correct teardown for a resource is not derivable
// from its type, for example returning memory to an external allocator. The
// function runs exactly once, in reverse acceptance order relative to every
// other entry. A nil function is accepted and releases as a no-op.
func (p *Pool) Defer(release func() error) {
	var fn releaseFn
	if release != nil {
		fn = func(any) error { return release() }
	}
	p.accept(entry{release: fn})
}

// accept appends one entry under the pool's lock. The accepted counter is
// bumped before the unlock so a teardown that steals this entry can never
// make a Stats snapshot report more released than accepted.
func (p *Pool) accept(e entry) {
	p.mu.Lock()
	p.entries = append(p.entries, e)
	atomic.AddInt64(&p.stats.accepted, 1)
	p.mu.Unlock()

	if p.collector != nil {
		p.collector.ObjectAccepted()
	}
}

// Clear releases every owned entry in the exact reverse of acceptance order
// and empties the pool. Later objects may hold references into earlier ones,
// so later objects are torn down first. Clearing an empty pool does nothing,
// which makes repeated clears safe: each entry's release capability runs at
// most once across the pool's lifetime.
//
// Release errors are logged at Warn level and dropped; use Close to observe
// them instead. The pool remains usable after Clear.
func (p *Pool) Clear() {
	if err := p.teardown(); err != nil {
		p.log().Warn("pool teardown reported release errors",
			zap.String("pool", p.name),
			zap.Error(err))
	}
}

// Close is the io.Closer rendition of Clear. It performs the same reverse
// order teardown but returns the joined release errors, wrapped as a
// structured release error. Closing an empty pool returns nil.
func (p *Pool) Close() error {
	return p.teardown()
}

// teardown detaches the current entry sequence under the lock, then runs the
// release capabilities in reverse order outside it. Entries accepted while
// releases are running belong to the next generation and are untouched.
func (p *Pool) teardown() error {
	start := time.Now()

	p.mu.Lock()
	entries := p.entries
	p.entries = nil
	p.mu.Unlock()

	if len(entries) == 0 {
		return nil
	}

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.release == nil {
			continue
		}
		if err := e.release(e.obj); err != nil {
			errs = append(errs, err)
		}
	}

	elapsed := time.Since(start)
	atomic.AddInt64(&p.stats.released, int64(len(entries)))
	atomic.AddInt64(&p.stats.clears, 1)
	if p.collector != nil {
		p.collector.PoolCleared(len(entries), elapsed)
	}
	p.log().Debug("object pool cleared",
		zap.String("pool", p.name),
		zap.Int("released", len(entries)),
		zap.Duration("elapsed", elapsed))

	if len(errs) == 0 {
		return nil
	}
	return poolerrors.Wrap(errors.Join(errs...), poolerrors.ErrorTypeRelease,
		"release failures during pool teardown")
}

// AcquireData moves every entry owned by src to the tail of p, preserving
// their relative order, and leaves src empty. Nothing is released: ownership
// transfers, it is never duplicated. A later teardown of p releases the
// transferred entries before p's pre-existing ones, since teardown reverses
// the combined order.
//
// Only p's lock is held for the transfer. src's lock is intentionally not
// taken, to keep the lock ordering of the original design: callers must
// ensure src is not being concurrently mutated during the call. Transferring
// from a nil pool or from p itself is a no-op.
func (p *Pool) AcquireData(src *Pool) {
	if src == nil || src == p {
		return
	}

	p.mu.Lock()
	moved := src.entries
	src.entries = nil
	p.entries = append(p.entries, moved...)
	p.mu.Unlock()

	n := len(moved)
	if n == 0 {
		return
	}
	atomic.AddInt64(&p.stats.transferred, int64(n))
	if p.collector != nil {
		p.collector.ObjectsTransferredIn(n)
	}
	if src.collector != nil {
		src.collector.ObjectsTransferredOut(n)
	}
}

// Size returns the number of entries currently owned and not yet released.
func (p *Pool) Size() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return uint64(len(p.entries))
}

// Stats returns a snapshot of the pool's lifetime counters. The counters are
// monotonic: Released never resets when entries are accepted again after a
// clear.
func (p *Pool) Stats() Stats {
	return Stats{
		Accepted:    atomic.LoadInt64(&p.stats.accepted),
		Released:    atomic.LoadInt64(&p.stats.released),
		Transferred: atomic.LoadInt64(&p.stats.transferred),
		Clears:      atomic.LoadInt64(&p.stats.clears),
	}
}

// scalarRelease captures the release capability for a single object of type
// *T. The capability is chosen once, at acceptance time, from the concrete
// type rather than re-derived at teardown.
func scalarRelease[T any](obj *T) releaseFn {
	if obj == nil {
		return nil
	}
	switch any(obj).(type) {
	case Releaser:
		return func(o any) error {
			o.(Releaser).Release()
			return nil
		}
	case io.Closer:
		return func(o any) error {
			return o.(io.Closer).Close()
		}
	default:
		// The pool's reference is the only thing pinning the object;
		// dropping it on teardown is the release.
		return nil
	}
}

// sliceRelease is the release capability shared by every slice of element
// type T. Elements are torn down back to front so that later elements may
// reference earlier ones, matching the pool-level teardown order.
func sliceRelease[T any](o any) error {
	s, _ := o.([]T)
	var errs []error
	for i := len(s) - 1; i >= 0; i-- {
		elem := any(s[i])
		if isNil(elem) {
			continue
		}
		switch v := elem.(type) {
		case Releaser:
			v.Release()
		case io.Closer:
			if err := v.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// isNil reports whether v holds no value or a nil pointer behind a non-nil
// interface. Typed-nil elements and closers must release as no-ops, matching
// how Add treats a nil *T.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
