package vault

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/jmgilman/go/errors"

	"github.com/ironsheep/image-vault-mcp/internal/imaging"
	"github.com/ironsheep/image-vault-mcp/internal/pixel"
)

// DefaultBudget is the memory ceiling used when none is configured: 100 MiB.
const DefaultBudget int64 = 100 << 20

// Stats is a point-in-time summary of the cache.
type Stats struct {
	ImageCount            int   `json:"image_count"`
	TotalMemoryBytes      int64 `json:"total_memory_bytes"`
	AverageMemoryPerImage int64 `json:"average_memory_per_image"`
	BudgetBytes           int64 `json:"budget_bytes"`
}

// Vault is a handle-addressed cache of decoded images held under a memory
// budget.
//
// Callers load encoded bytes, receive a Handle, and transform the entry in
// place. Every load and transform moves its handle to the most recently used
// position and then evicts least recently used entries until the total
// footprint fits the budget again. A single entry larger than the budget is
// kept rather than evicted against itself.
//
// Vault is safe for concurrent use. Reads share a lock; every mutation holds
// the exclusive lock for its whole duration, including the pixel work it
// hands to the Offloader. Installed buffers are never written to, so readers
// may encode a buffer after releasing the lock.
type Vault struct {
	mu      sync.RWMutex
	entries map[Handle]*pixel.Buffer
	dims    map[Handle]Dimensions
	order   *accessOrder
	mem     accountant
	budget  int64
	nextID  atomic.Uint32

	offload     Offloader
	ownedPool   *WorkerPool
	workers     int
	logger      *slog.Logger
	jpegQuality int
}

// New creates an empty vault.
//
// Without WithOffloader the vault starts its own WorkerPool; call Close to
// stop it.
func New(opts ...Option) *Vault {
	v := &Vault{
		entries:     make(map[Handle]*pixel.Buffer),
		dims:        make(map[Handle]Dimensions),
		order:       newAccessOrder(),
		budget:      DefaultBudget,
		logger:      slog.New(nopHandler{}),
		jpegQuality: imaging.DefaultJPEGQuality,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.offload == nil {
		v.ownedPool = NewWorkerPool(v.workers)
		v.offload = v.ownedPool
	}
	return v
}

// Close releases the worker pool the vault created, if any. Entries stay in
// memory and Dimensions, Stats, Dispose and Clear keep working, but loads,
// transforms and Bytes fail with errors.CodeUnavailable.
func (v *Vault) Close() {
	if v.ownedPool != nil {
		v.ownedPool.Close()
	}
}

// Load decodes image bytes and stores the result under a new handle.
//
// Parameters:
//   - ctx: Bounds the wait for a free worker.
//   - data: Encoded PNG, JPEG, WebP, GIF, BMP or TIFF bytes.
//
// Returns:
//   - Handle: The new entry, already marked most recently used.
//   - error: A decode error if the bytes are not a readable image. Nothing is
//     stored in that case.
func (v *Vault) Load(ctx context.Context, data []byte) (Handle, error) {
	return v.load(ctx, "load", func() (*pixel.Buffer, error) {
		return imaging.Decode(data)
	})
}

// LoadPath reads and decodes an image file, storing it under a new handle.
func (v *Vault) LoadPath(ctx context.Context, path string) (Handle, error) {
	return v.load(ctx, "load_path", func() (*pixel.Buffer, error) {
		return imaging.Open(path)
	})
}

func (v *Vault) load(ctx context.Context, op string, decode func() (*pixel.Buffer, error)) (Handle, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Handle 0 is reserved, so the counter must not wrap.
	if v.nextID.Load() == math.MaxUint32 {
		return 0, errors.WithContext(
			errors.New(errors.CodeUnavailable, "image handles exhausted"),
			"operation", op)
	}

	var buf *pixel.Buffer
	err := v.offload.Do(ctx, func() error {
		var err error
		buf, err = decode()
		return err
	})
	if err != nil {
		return 0, errors.WithContext(err, "operation", op)
	}

	h := Handle(v.nextID.Add(1))
	v.entries[h] = buf
	v.dims[h] = dimensionsOf(buf)
	v.mem.add(buf.Footprint())
	v.order.pushBack(h)

	v.logger.Debug("image loaded",
		"handle", uint32(h),
		"width", buf.Width,
		"height", buf.Height,
		"encoding", buf.Encoding.String(),
		"bytes", buf.Footprint())

	v.evictIfNeeded()
	return h, nil
}

// Bytes encodes the entry in the requested format. It does not change the
// access order.
func (v *Vault) Bytes(ctx context.Context, h Handle, format imaging.Format) ([]byte, error) {
	v.mu.RLock()
	buf, ok := v.entries[h]
	quality := v.jpegQuality
	v.mu.RUnlock()
	if !ok {
		return nil, annotate(notFound(h), "get_bytes", h)
	}

	var out []byte
	err := v.offload.Do(ctx, func() error {
		var err error
		out, err = imaging.Encode(buf, format, imaging.EncodeOptions{JPEGQuality: quality})
		return err
	})
	if err != nil {
		return nil, annotate(err, "get_bytes", h)
	}
	return out, nil
}

// Dimensions returns the entry's current size. It does not change the
// access order.
func (v *Vault) Dimensions(h Handle) (Dimensions, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	d, ok := v.dims[h]
	if !ok {
		return Dimensions{}, annotate(notFound(h), "get_dimensions", h)
	}
	return d, nil
}

// Contains reports whether h refers to a live entry.
func (v *Vault) Contains(h Handle) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	_, ok := v.entries[h]
	return ok
}

// Dispose removes one entry. Unknown handles, including evicted ones, are a
// not-found error.
func (v *Vault) Dispose(h Handle) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.removeLocked(h) {
		return annotate(notFound(h), "dispose", h)
	}
	v.logger.Debug("image disposed", "handle", uint32(h))
	return nil
}

// DisposeMany removes every listed entry, silently skipping unknown handles,
// and returns how many were removed.
func (v *Vault) DisposeMany(handles []Handle) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	removed := 0
	for _, h := range handles {
		if v.removeLocked(h) {
			removed++
		}
	}
	v.logger.Debug("images disposed", "requested", len(handles), "removed", removed)
	return removed
}

// Clear drops every entry. The handle counter keeps counting.
func (v *Vault) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearLocked()
	v.logger.Debug("cache cleared")
}

// Reconfigure replaces the cache with an empty one under a new budget.
func (v *Vault) Reconfigure(budget int64) error {
	if budget <= 0 {
		return errors.Newf(errors.CodeInvalidInput, "memory budget must be positive, got %d", budget)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.clearLocked()
	v.budget = budget
	v.logger.Info("cache reconfigured", "budget_bytes", budget)
	return nil
}

// Budget returns the configured memory ceiling in bytes.
func (v *Vault) Budget() int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.budget
}

// Stats reports entry count, total footprint and mean footprint. The mean
// is zero when the cache is empty.
func (v *Vault) Stats() Stats {
	v.mu.RLock()
	defer v.mu.RUnlock()

	s := Stats{
		ImageCount:       len(v.entries),
		TotalMemoryBytes: v.mem.Total(),
		BudgetBytes:      v.budget,
	}
	if s.ImageCount > 0 {
		s.AverageMemoryPerImage = s.TotalMemoryBytes / int64(s.ImageCount)
	}
	return s
}

func (v *Vault) removeLocked(h Handle) bool {
	buf, ok := v.entries[h]
	if !ok {
		return false
	}
	delete(v.entries, h)
	delete(v.dims, h)
	v.order.remove(h)
	v.mem.remove(buf.Footprint())
	return true
}

func (v *Vault) clearLocked() {
	v.entries = make(map[Handle]*pixel.Buffer)
	v.dims = make(map[Handle]Dimensions)
	v.order.reset()
	v.mem.reset()
}

// install swaps in a transformed buffer for an existing entry, then marks the
// handle most recently used and enforces the budget.
func (v *Vault) install(h Handle, prev, next *pixel.Buffer) {
	v.entries[h] = next
	v.dims[h] = dimensionsOf(next)
	v.mem.replace(prev.Footprint(), next.Footprint())
	v.order.touch(h)
	v.evictIfNeeded()
}

// evictIfNeeded drops least recently used entries while the total exceeds
// the budget. The last remaining entry is never evicted.
func (v *Vault) evictIfNeeded() {
	for v.mem.Total() > v.budget && v.order.len() > 1 {
		h, ok := v.order.popFront()
		if !ok {
			return
		}
		buf, ok := v.entries[h]
		if !ok {
			continue
		}
		delete(v.entries, h)
		delete(v.dims, h)
		v.mem.remove(buf.Footprint())

		v.logger.Debug("image evicted",
			"handle", uint32(h),
			"bytes", buf.Footprint(),
			"total_bytes", v.mem.Total(),
			"budget_bytes", v.budget)
	}
}

// checkInvariants verifies that the counter, access order, dimension index
// and entries agree. Used by tests at quiescent points.
func (v *Vault) checkInvariants() error {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var sum int64
	for h, buf := range v.entries {
		sum += buf.Footprint()
		if d, ok := v.dims[h]; !ok || d != dimensionsOf(buf) {
			return fmt.Errorf("dimension index for handle %d is %+v, buffer is %dx%d", h, d, buf.Width, buf.Height)
		}
	}
	if sum != v.mem.Total() {
		return fmt.Errorf("memory counter %d, entries sum to %d", v.mem.Total(), sum)
	}
	if len(v.dims) != len(v.entries) {
		return fmt.Errorf("%d dimension records for %d entries", len(v.dims), len(v.entries))
	}
	order := v.order.handles()
	if len(order) != len(v.entries) {
		return fmt.Errorf("access order holds %d handles for %d entries", len(order), len(v.entries))
	}
	for _, h := range order {
		if _, ok := v.entries[h]; !ok {
			return fmt.Errorf("access order lists handle %d with no entry", h)
		}
	}
	return nil
}
