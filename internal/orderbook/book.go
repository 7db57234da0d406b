// Package orderbook implements a single-symbol central limit order book
// with price-time priority matching, cancellation by order id through an
// id index (O(1) queue unlink after an O(log P) price-level lookup), and
// O(1) per-level aggregate volume reads.
package orderbook

import (
	"container/list"

	"marketsim/internal/common"

	"github.com/tidwall/btree"
)

type levels = btree.BTreeG[*priceLevel]

// orderLocation is the id_index entry: enough to unlink an order from its
// queue in O(1) without a linear scan of either side of the book.
type orderLocation struct {
	side  common.Side
	price uint64
	elem  *list.Element
}

// OrderBook is the matching engine for a single symbol. Bids iterate
// highest-price-first, asks iterate lowest-price-first; neither tree is
// ever sorted or re-sorted during matching, only traversed in the order
// its comparator already maintains. Self-trades are permitted: matching
// performs no agent-identity check between taker and maker.
type OrderBook struct {
	StockID uint64

	bids *levels
	asks *levels

	idIndex map[uint64]orderLocation
}

// New returns an empty book for the given symbol.
func New(stockID uint64) *OrderBook {
	return &OrderBook{
		StockID: stockID,
		bids: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price > b.price // best bid first: descending
		}),
		asks: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price < b.price // best ask first: ascending
		}),
		idIndex: make(map[uint64]orderLocation),
	}
}

// ProcessLimitOrder matches order against the opposite side up to its
// limit price, then rests any remainder on its own side. order must
// already carry its assigned id. Returns every Trade produced, in
// produced order.
func (b *OrderBook) ProcessLimitOrder(order *common.Order) []common.Trade {
	if order == nil || order.Remaining() == 0 {
		return nil
	}
	trades := b.match(order, true)
	if order.Remaining() > 0 {
		b.rest(order)
	}
	return trades
}

// ProcessMarketOrder sweeps the opposite side until order is filled or the
// opposite side is exhausted. It never rests a remainder.
func (b *OrderBook) ProcessMarketOrder(order *common.Order) []common.Trade {
	if order == nil || order.Remaining() == 0 {
		return nil
	}
	return b.match(order, false)
}

// CancelOrder removes a resting order owned by agentID. Returns false
// without changing state if the order does not exist or belongs to a
// different agent.
func (b *OrderBook) CancelOrder(orderID, agentID uint64) bool {
	loc, ok := b.idIndex[orderID]
	if !ok {
		return false
	}
	tree := b.treeFor(loc.side)
	level, ok := tree.Get(&priceLevel{price: loc.price})
	if !ok {
		return false
	}
	o := loc.elem.Value.(*common.Order)
	if o.AgentID != agentID {
		return false
	}
	level.cancel(loc.elem, o)
	if level.empty() {
		tree.Delete(level)
	}
	delete(b.idIndex, orderID)
	return true
}

func (b *OrderBook) treeFor(side common.Side) *levels {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

// match walks the opposite side of the book best-price-first, consuming
// resting orders in FIFO order at each level. When isLimit is true,
// matching stops as soon as a level's price is no longer acceptable to
// order's limit price; a market order has no such bound and continues
// until volume is exhausted or the side runs dry.
func (b *OrderBook) match(order *common.Order, isLimit bool) []common.Trade {
	opposite := b.treeFor(order.Side.Opposite())

	var trades []common.Trade
	for order.Remaining() > 0 {
		level, ok := opposite.Min()
		if !ok {
			break
		}
		if isLimit && !priceAcceptable(order.Side, order.Price, level.price) {
			break
		}

		elem := level.orders.Front()
		for elem != nil && order.Remaining() > 0 {
			maker := elem.Value.(*common.Order)
			matchQty := min(order.Remaining(), maker.Remaining())

			order.Filled += matchQty
			maker.Filled += matchQty
			level.applyFill(matchQty)

			trades = append(trades, common.Trade{
				StockID:      b.StockID,
				Price:        level.price,
				Volume:       matchQty,
				TakerAgentID: order.AgentID,
				MakerAgentID: maker.AgentID,
				TakerSide:    order.Side,
				MakerOrderID: maker.ID,
			})

			next := elem.Next()
			if maker.Remaining() == 0 {
				level.unlink(elem)
				delete(b.idIndex, maker.ID)
			}
			elem = next
		}

		if level.empty() {
			opposite.Delete(level)
		}
	}
	return trades
}

// priceAcceptable reports whether a limit order may still cross a level
// at the given price: a buy crosses only levels at or below its limit, a
// sell only levels at or above its limit.
func priceAcceptable(side common.Side, limitPrice, levelPrice uint64) bool {
	if side == common.Buy {
		return levelPrice <= limitPrice
	}
	return levelPrice >= limitPrice
}

// rest inserts order's remainder into its own side of the book.
func (b *OrderBook) rest(order *common.Order) {
	tree := b.treeFor(order.Side)
	level, ok := tree.Get(&priceLevel{price: order.Price})
	if !ok {
		level = newPriceLevel(order.Price)
		tree.Set(level)
	}
	elem := level.push(order)
	b.idIndex[order.ID] = orderLocation{side: order.Side, price: order.Price, elem: elem}
}

// BestBid returns the highest resting bid price and whether one exists.
func (b *OrderBook) BestBid() (uint64, bool) {
	level, ok := b.bids.Min()
	if !ok {
		return 0, false
	}
	return level.price, true
}

// BestAsk returns the lowest resting ask price and whether one exists.
func (b *OrderBook) BestAsk() (uint64, bool) {
	level, ok := b.asks.Min()
	if !ok {
		return 0, false
	}
	return level.price, true
}

// LevelVolume returns the aggregate remaining volume resting at price on
// side, or 0 if no such level exists.
func (b *OrderBook) LevelVolume(side common.Side, price uint64) uint64 {
	level, ok := b.treeFor(side).Get(&priceLevel{price: price})
	if !ok {
		return 0
	}
	return level.totalVolume
}

// Orders returns a snapshot of the resting orders at price on side,
// head-to-tail in FIFO order. Intended for tests and visualizers.
func (b *OrderBook) Orders(side common.Side, price uint64) []common.Order {
	level, ok := b.treeFor(side).Get(&priceLevel{price: price})
	if !ok {
		return nil
	}
	out := make([]common.Order, 0, level.orders.Len())
	for e := level.orders.Front(); e != nil; e = e.Next() {
		out = append(out, *e.Value.(*common.Order))
	}
	return out
}

// Len reports how many distinct price levels exist on side.
func (b *OrderBook) Len(side common.Side) int {
	return b.treeFor(side).Len()
}
