package vault

import (
	"container/list"
)

// accessOrder keeps live handles from least to most recently used.
//
// The list front is the eviction candidate. The index map makes touch and
// remove O(1). Not safe for concurrent use; the vault lock guards it.
type accessOrder struct {
	ll    *list.List
	index map[Handle]*list.Element
}

func newAccessOrder() *accessOrder {
	return &accessOrder{
		ll:    list.New(),
		index: make(map[Handle]*list.Element),
	}
}

// pushBack records h as most recently used, inserting it if absent.
func (o *accessOrder) pushBack(h Handle) {
	if e, ok := o.index[h]; ok {
		o.ll.MoveToBack(e)
		return
	}
	o.index[h] = o.ll.PushBack(h)
}

// touch moves an existing handle to the most recently used end.
// Unknown handles are ignored.
func (o *accessOrder) touch(h Handle) {
	if e, ok := o.index[h]; ok {
		o.ll.MoveToBack(e)
	}
}

func (o *accessOrder) remove(h Handle) bool {
	e, ok := o.index[h]
	if !ok {
		return false
	}
	o.ll.Remove(e)
	delete(o.index, h)
	return true
}

// popFront removes and returns the least recently used handle.
func (o *accessOrder) popFront() (Handle, bool) {
	e := o.ll.Front()
	if e == nil {
		return 0, false
	}
	h := o.ll.Remove(e).(Handle)
	delete(o.index, h)
	return h, true
}

func (o *accessOrder) len() int {
	return o.ll.Len()
}

// handles lists the order from least to most recently used.
func (o *accessOrder) handles() []Handle {
	out := make([]Handle, 0, o.ll.Len())
	for e := o.ll.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(Handle))
	}
	return out
}

func (o *accessOrder) reset() {
	o.ll.Init()
	o.index = make(map[Handle]*list.Element)
}
