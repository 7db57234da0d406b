package agent

import (
	"math/rand/v2"
	"sort"

	"marketsim/internal/common"
	"marketsim/internal/market"
)

// Dumb is the retail market-order ensemble: each tick it samples a pool
// of independent micro-actors, each with a small probability of firing a
// market order in a random direction and a small "burn" chance of firing
// something much larger. Margin calls liquidate the entire inventory,
// regardless of per-symbol sign, the moment cash drops below -margin.
type Dumb struct {
	id               uint64
	inventory        map[uint64]int64
	ticksUntilActive uint32
	openOrders       map[uint64]common.Order
	cash             float64
	margin           float64
	portValue        float64
}

// NewDumb seeds a retail ensemble agent with the simulator's default
// starting cash and margin.
func NewDumb(id uint64) *Dumb {
	return &Dumb{
		id:               id,
		inventory:        make(map[uint64]int64),
		ticksUntilActive: DumbTicksUntilActive,
		openOrders:       make(map[uint64]common.Order),
		cash:             DumbInitialCash,
		margin:           DumbMargin,
	}
}

func (a *Dumb) ID() uint64 { return a.id }

func (a *Dumb) DecideActions(view *market.View) []common.OrderRequest {
	if a.ticksUntilActive > 0 {
		a.ticksUntilActive--
		return nil
	}

	ids := view.Stocks().IDs()
	if len(ids) == 0 {
		return nil
	}
	stockID := ids[rand.IntN(len(ids))]

	var out []common.OrderRequest
	for i := uint32(0); i < DumbNumTraders; i++ {
		if rand.Float64() >= DumbActionProb {
			continue
		}
		side := common.Buy
		if rand.Float64() < 0.5 {
			side = common.Sell
		}

		var volume uint64
		if rand.Float64() < DumbLargeVolChance {
			volume = randRange(DumbLargeVolMin, DumbLargeVolMax)
		} else {
			volume = randRange(DumbTypicalVolMin, DumbTypicalVolMax)
		}

		if side == common.Buy {
			if px, ok := view.MidPrice(stockID); ok {
				cost := float64(volume) * (float64(px) / 100.0)
				if cost > a.cash+a.margin {
					continue
				}
			}
		}

		out = append(out, common.MarketOrderRequest{AgentID: a.id, StockID: stockID, Side: side, Volume: volume})
	}
	return out
}

func (a *Dumb) AcknowledgeOrder(o common.Order) {
	a.openOrders[o.ID] = o
}

func (a *Dumb) UpdatePortfolio(delta int64, tr common.Trade) {
	a.inventory[tr.StockID] += delta
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

// MarginCall liquidates the agent's entire inventory, across every
// symbol, with a Sell market order sized at the absolute held quantity —
// even for symbols where the agent is already short. This is the
// cash-triggered policy: it fires on cash alone, independent of
// inventory sign.
func (a *Dumb) MarginCall() []common.OrderRequest {
	if a.cash >= -a.margin {
		return nil
	}
	stockIDs := make([]uint64, 0, len(a.inventory))
	for stockID := range a.inventory {
		stockIDs = append(stockIDs, stockID)
	}
	sort.Slice(stockIDs, func(i, j int) bool { return stockIDs[i] < stockIDs[j] })

	var out []common.OrderRequest
	for _, stockID := range stockIDs {
		vol := a.inventory[stockID]
		if vol == 0 {
			continue
		}
		out = append(out, common.MarketOrderRequest{
			AgentID: a.id,
			StockID: stockID,
			Side:    common.Sell,
			Volume:  absInt64(vol),
		})
	}
	a.inventory = make(map[uint64]int64)
	return out
}

func (a *Dumb) Inventory() int64 {
	var total int64
	for _, v := range a.inventory {
		total += v
	}
	return total
}

func (a *Dumb) PendingOrders() []common.Order {
	out := make([]common.Order, 0, len(a.openOrders))
	for _, o := range a.openOrders {
		out = append(out, o)
	}
	return out
}

// CancelOpenOrder is not implemented for the retail ensemble; it never
// rests limit orders, so there is nothing to cancel.
func (a *Dumb) CancelOpenOrder(uint64) []common.OrderRequest { return nil }

func (a *Dumb) EvaluatePortfolio(view *market.View) float64 {
	a.portValue = 0
	for stockID, vol := range a.inventory {
		if px, ok := view.MidPrice(stockID); ok {
			a.portValue += float64(vol) * (float64(px) / 100.0)
		}
	}
	return a.portValue
}

func (a *Dumb) Clone() market.Agent { return NewDumb(a.id) }

func randRange(lo, hi uint64) uint64 {
	if hi <= lo {
		return lo
	}
	return lo + rand.Uint64N(hi-lo+1)
}

func absInt64(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
