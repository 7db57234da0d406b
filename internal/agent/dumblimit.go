package agent

import (
	"math/rand/v2"

	"marketsim/internal/common"
	"marketsim/internal/market"
)

// DumbLimit is the limit-order ensemble: a larger, slower population than
// Dumb that posts resting orders offset from the best bid/ask rather than
// crossing the spread outright. Its margin call policy is deliberately
// different from Dumb's: it triggers on inventory alone (a short-covering
// floor), and buys to cover instead of selling everything.
type DumbLimit struct {
	id               uint64
	inventory        int64
	ticksUntilActive uint32
	openOrders       map[uint64]common.Order
	cash             float64
	margin           float64
	portValue        float64
}

// NewDumbLimit seeds a limit-order ensemble agent.
func NewDumbLimit(id uint64) *DumbLimit {
	return &DumbLimit{
		id:               id,
		inventory:        LimitInventory,
		ticksUntilActive: LimitTicksUntilActive,
		openOrders:       make(map[uint64]common.Order),
		cash:             LimitInitialCash,
		margin:           LimitMargin,
	}
}

func (a *DumbLimit) ID() uint64 { return a.id }

func (a *DumbLimit) DecideActions(view *market.View) []common.OrderRequest {
	if a.ticksUntilActive > 0 {
		a.ticksUntilActive--
		return nil
	}

	ids := view.Stocks().IDs()
	if len(ids) == 0 {
		return nil
	}
	stockID := ids[rand.IntN(len(ids))]
	book, ok := view.Book(stockID)
	if !ok {
		return nil
	}
	bestBid, hasBid := book.BestBid()
	bestAsk, hasAsk := book.BestAsk()

	var out []common.OrderRequest
	for i := uint32(0); i < LimitNumTraders; i++ {
		if rand.Float64() >= LimitActionProb {
			continue
		}
		if !hasBid || !hasAsk || bestBid >= bestAsk {
			continue
		}

		side := common.Buy
		if rand.Float64() < 0.5 {
			side = common.Sell
		}
		offset := randRange(1, LimitMaxOffset)

		var price uint64
		if side == common.Buy {
			price = common.ClampPrice(int64(bestBid) + int64(offset))
		} else {
			price = common.ClampPrice(int64(bestAsk) - int64(offset))
		}
		volume := randRange(LimitVolMin, LimitVolMax)

		out = append(out, common.LimitOrderRequest{
			AgentID: a.id, StockID: stockID, Side: side, Price: price, Volume: volume,
		})
	}
	return out
}

func (a *DumbLimit) AcknowledgeOrder(o common.Order) {
	a.openOrders[o.ID] = o
}

func (a *DumbLimit) UpdatePortfolio(delta int64, tr common.Trade) {
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

// MarginCall buys to cover once inventory drops to or below the
// configured floor — the inverse trigger from Dumb's cash-based policy.
func (a *DumbLimit) MarginCall() []common.OrderRequest {
	if a.inventory > MarginCallThreshold {
		return nil
	}
	deficit := absInt64(a.inventory)
	stockID := uint64(0)
	for _, o := range a.openOrders {
		stockID = o.StockID
		break
	}
	return []common.OrderRequest{
		common.MarketOrderRequest{AgentID: a.id, StockID: stockID, Side: common.Buy, Volume: deficit},
	}
}

func (a *DumbLimit) Inventory() int64 { return a.inventory }

func (a *DumbLimit) PendingOrders() []common.Order {
	out := make([]common.Order, 0, len(a.openOrders))
	for _, o := range a.openOrders {
		out = append(out, o)
	}
	return out
}

func (a *DumbLimit) CancelOpenOrder(orderID uint64) []common.OrderRequest {
	delete(a.openOrders, orderID)
	return nil
}

func (a *DumbLimit) EvaluatePortfolio(view *market.View) float64 {
	ids := view.Stocks().IDs()
	if len(ids) == 0 {
		return 0
	}
	if px, ok := view.MidPrice(ids[0]); ok {
		a.portValue = float64(a.inventory) * (float64(px) / 100.0)
	}
	return a.portValue
}

func (a *DumbLimit) Clone() market.Agent { return NewDumbLimit(a.id) }
