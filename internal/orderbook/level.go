package orderbook

import (
	"container/list"

	"marketsim/internal/common"
)

// priceLevel holds every resting order at a single price on one side of a
// book. orders is an intrusive FIFO: each list.Element's Value is always
// *common.Order, so a cancel or a pop that already has the element handle
// can unlink it in O(1) without walking the queue.
type priceLevel struct {
	price       uint64
	totalVolume uint64
	orders      *list.List
}

func newPriceLevel(price uint64) *priceLevel {
	return &priceLevel{price: price, orders: list.New()}
}

// push rests a brand-new order at the back of the queue.
func (l *priceLevel) push(o *common.Order) *list.Element {
	l.totalVolume += o.Remaining()
	return l.orders.PushBack(o)
}

// applyFill records that matchQty of a resting order's remaining volume
// was just consumed by a match. It does not unlink the element; call
// unlink separately once the order is fully filled.
func (l *priceLevel) applyFill(matchQty uint64) {
	l.totalVolume -= matchQty
}

// unlink removes elem from the queue without touching totalVolume; callers
// must have already accounted for elem's remaining volume.
func (l *priceLevel) unlink(elem *list.Element) {
	l.orders.Remove(elem)
}

// cancel removes a still-partially-open order, adjusting totalVolume by
// whatever quantity it had left.
func (l *priceLevel) cancel(elem *list.Element, o *common.Order) {
	l.totalVolume -= o.Remaining()
	l.orders.Remove(elem)
}

func (l *priceLevel) empty() bool {
	return l.orders.Len() == 0
}
