package vault

// accountant tracks the sum of entry footprints in bytes.
// All methods are called with the vault's write lock held.
type accountant struct {
	total int64
}

func (a *accountant) add(n int64) {
	a.total += n
}

func (a *accountant) remove(n int64) {
	a.total -= n
}

// replace swaps one footprint for another, as when a transform changes an
// entry's size or encoding.
func (a *accountant) replace(prev, next int64) {
	a.total += next - prev
}

func (a *accountant) reset() {
	a.total = 0
}

func (a *accountant) Total() int64 {
	return a.total
}
