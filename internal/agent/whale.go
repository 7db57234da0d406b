package agent

import (
	"math/rand/v2"
	"sort"

	"marketsim/internal/common"
	"marketsim/internal/market"
)

// Whale is a low-probability, high-capital actor. When it fires, it first
// cancels every order it has resting, then either slams the book with one
// huge market order (the rare "crazy" branch) or posts symmetric large
// support/resistance limits straddling the mid price. Its capital is deep
// enough that it never margin-calls.
type Whale struct {
	id               uint64
	inventory        int64
	ticksUntilActive uint32
	openOrders       map[uint64]common.Order
	cash             float64
	margin           float64
	portValue        float64
}

// NewWhale seeds a whale agent with the simulator's deep default capital.
func NewWhale(id uint64) *Whale {
	return &Whale{
		id:               id,
		inventory:        WhaleInitialInventory,
		ticksUntilActive: WhaleTicksUntilActive,
		openOrders:       make(map[uint64]common.Order),
		cash:             WhaleInitialCash,
		margin:           WhaleMargin,
	}
}

func (a *Whale) ID() uint64 { return a.id }

func (a *Whale) DecideActions(view *market.View) []common.OrderRequest {
	if a.ticksUntilActive > 0 {
		a.ticksUntilActive--
		return nil
	}
	if rand.Float64() >= WhaleActionProb {
		return nil
	}

	ids := view.Stocks().IDs()
	if len(ids) == 0 {
		return nil
	}
	stockID := ids[rand.IntN(len(ids))]

	var reqs []common.OrderRequest

	orderIDs := make([]uint64, 0, len(a.openOrders))
	for id := range a.openOrders {
		orderIDs = append(orderIDs, id)
	}
	sort.Slice(orderIDs, func(i, j int) bool { return orderIDs[i] < orderIDs[j] })
	for _, id := range orderIDs {
		reqs = append(reqs, common.CancelOrderRequest{AgentID: a.id, OrderID: id})
	}
	a.openOrders = make(map[uint64]common.Order)

	if rand.Float64() < WhaleCrazyProb {
		volume := randRange(WhaleOrderVolume/2, WhaleOrderVolume)
		side := common.Buy
		if rand.Float64() < 0.5 {
			side = common.Sell
		}
		reqs = append(reqs, common.MarketOrderRequest{AgentID: a.id, StockID: stockID, Side: side, Volume: volume})
		return reqs
	}

	mid, ok := view.MidPrice(stockID)
	if !ok {
		return reqs
	}
	buyBias := randRange(WhalePriceOffsetMin, WhalePriceOffsetMax)
	sellBias := randRange(WhalePriceOffsetMin, WhalePriceOffsetMax)
	bidPx := common.ClampPrice(int64(mid) - int64(buyBias))
	askPx := common.ClampPrice(int64(mid) + int64(sellBias))

	reqs = append(reqs,
		common.LimitOrderRequest{AgentID: a.id, StockID: stockID, Side: common.Buy, Price: bidPx, Volume: WhaleOrderVolume},
		common.LimitOrderRequest{AgentID: a.id, StockID: stockID, Side: common.Sell, Price: askPx, Volume: WhaleOrderVolume},
	)
	return reqs
}

func (a *Whale) AcknowledgeOrder(o common.Order) {
	a.openOrders[o.ID] = o
}

func (a *Whale) UpdatePortfolio(delta int64, tr common.Trade) {
	a.inventory += delta
	a.cash -= float64(delta) * (float64(tr.Price) / 100.0)

	if tr.MakerAgentID == a.id {
		if o, ok := a.openOrders[tr.MakerOrderID]; ok {
			o.Filled += tr.Volume
			if o.Filled >= o.Volume {
				delete(a.openOrders, tr.MakerOrderID)
			} else {
				a.openOrders[tr.MakerOrderID] = o
			}
		}
	}
}

// MarginCall never fires: the whale's capital base is deep enough that
// it is never at risk in this simulation.
func (a *Whale) MarginCall() []common.OrderRequest { return nil }

func (a *Whale) Inventory() int64 { return a.inventory }

func (a *Whale) PendingOrders() []common.Order {
	out := make([]common.Order, 0, len(a.openOrders))
	for _, o := range a.openOrders {
		out = append(out, o)
	}
	return out
}

func (a *Whale) CancelOpenOrder(orderID uint64) []common.OrderRequest {
	if _, ok := a.openOrders[orderID]; !ok {
		return nil
	}
	delete(a.openOrders, orderID)
	return []common.OrderRequest{common.CancelOrderRequest{AgentID: a.id, OrderID: orderID}}
}

func (a *Whale) EvaluatePortfolio(view *market.View) float64 {
	ids := view.Stocks().IDs()
	if len(ids) == 0 {
		return 0
	}
	if px, ok := view.MidPrice(ids[0]); ok {
		a.portValue = float64(a.inventory) * (float64(px) / 100.0)
	}
	return a.portValue
}

func (a *Whale) Clone() market.Agent { return NewWhale(a.id) }
