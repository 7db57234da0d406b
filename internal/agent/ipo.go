package agent

import (
	"marketsim/internal/common"
	"marketsim/internal/market"
)

// IPO posts a one-time sell ladder on its first active tick and is never
// heard from again.
type IPO struct {
	id         uint64
	inventory  int64
	hasActed   bool
	openOrders map[uint64]common.Order
}

// NewIPO seeds an IPO agent with the simulator's default float to
// distribute.
func NewIPO(id uint64) *IPO {
	return &IPO{id: id, inventory: IPOFloatToDistrib, openOrders: make(map[uint64]common.Order)}
}

func (a *IPO) ID() uint64 { return a.id }

func (a *IPO) DecideActions(view *market.View) []common.OrderRequest {
	if a.hasActed {
		return nil
	}
	a.hasActed = true

	ids := view.Stocks().IDs()
	if len(ids) == 0 {
		return nil
	}
	stockID := ids[0]

	volPer := uint64(a.inventory) / IPOLadderLevels
	reqs := make([]common.OrderRequest, 0, IPOLadderLevels)
	for i := uint64(0); i < IPOLadderLevels; i++ {
		reqs = append(reqs, common.LimitOrderRequest{
			AgentID: a.id,
			StockID: stockID,
			Side:    common.Sell,
			Price:   IPOStartPrice + i*IPOTickSize,
			Volume:  volPer,
		})
	}
	return reqs
}

func (a *IPO) AcknowledgeOrder(o common.Order) {
	a.openOrders[o.ID] = o
}

func (a *IPO) UpdatePortfolio(delta int64, tr common.Trade) {
	a.inventory += delta
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

func (a *IPO) MarginCall() []common.OrderRequest { return nil }

func (a *IPO) Inventory() int64 { return a.inventory }

func (a *IPO) PendingOrders() []common.Order {
	out := make([]common.Order, 0, len(a.openOrders))
	for _, o := range a.openOrders {
		out = append(out, o)
	}
	return out
}

func (a *IPO) CancelOpenOrder(orderID uint64) []common.OrderRequest {
	delete(a.openOrders, orderID)
	return nil
}

func (a *IPO) EvaluatePortfolio(view *market.View) float64 {
	ids := view.Stocks().IDs()
	if len(ids) == 0 {
		return 0
	}
	px, ok := view.MidPrice(ids[0])
	if !ok {
		return 0
	}
	return float64(a.inventory) * (float64(px) / 100.0)
}

func (a *IPO) Clone() market.Agent { return NewIPO(a.id) }
