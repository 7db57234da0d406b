package agent

import (
	"math/rand/v2"

	"marketsim/internal/common"
	"marketsim/internal/market"
)

// MarketMaker seeds a decaying depth ladder the first time it touches a
// symbol, then quotes two-sided around the book's mid price, skewed by
// its own inventory. When only one side of the book is populated it
// posts a single one-sided quote to "unstick" the missing side rather
// than waiting; when the book is crossed or empty it falls back to a
// short-covering safety valve if its inventory warrants one.
type MarketMaker struct {
	id               uint64
	inventory        map[uint64]int64
	ticksUntilActive uint32
	bootstrapped     map[uint64]bool
	openOrders       map[uint64]common.Order
}

// NewMarketMaker seeds a market maker agent.
func NewMarketMaker(id uint64) *MarketMaker {
	return &MarketMaker{
		id:               id,
		inventory:        make(map[uint64]int64),
		ticksUntilActive: MMTicksUntilActive,
		bootstrapped:     make(map[uint64]bool),
		openOrders:       make(map[uint64]common.Order),
	}
}

func (a *MarketMaker) ID() uint64 { return a.id }

func (a *MarketMaker) DecideActions(view *market.View) []common.OrderRequest {
	if a.ticksUntilActive > 0 {
		a.ticksUntilActive--
		return nil
	}

	ids := view.Stocks().IDs()
	if len(ids) == 0 {
		return nil
	}
	stockID := ids[rand.IntN(len(ids))]

	if !a.bootstrapped[stockID] {
		a.bootstrapped[stockID] = true
		a.inventory[stockID] = MMInitialInventory
		return a.seedLiquidity(stockID)
	}

	book, ok := view.Book(stockID)
	if !ok {
		return nil
	}
	bestBid, hasBid := book.BestBid()
	bestAsk, hasAsk := book.BestAsk()

	switch {
	case hasBid && hasAsk && bestAsk > bestBid:
		return a.quoteTwoSided(stockID, (bestBid+bestAsk)/2)
	case hasAsk && !hasBid:
		price := common.ClampPrice(int64(bestAsk) - int64(MMDesiredSpread))
		return []common.OrderRequest{a.oneSidedQuote(stockID, common.Buy, price)}
	case hasBid && !hasAsk:
		price := common.ClampPrice(int64(bestBid) + int64(MMDesiredSpread))
		return []common.OrderRequest{a.oneSidedQuote(stockID, common.Sell, price)}
	default:
		return a.shortCoverOrEmpty(stockID)
	}
}

func (a *MarketMaker) seedLiquidity(stockID uint64) []common.OrderRequest {
	reqs := make([]common.OrderRequest, 0, MMSeedLevels*2)
	for lvl := uint64(0); lvl < uint64(MMSeedLevels); lvl++ {
		vol := MMSeedBaseVolume - lvl*MMSeedVolumeTaper
		bidPx := common.ClampPrice(int64(MMInitialCenterPrice) - int64(MMDesiredSpread/2+lvl))
		askPx := common.ClampPrice(int64(MMInitialCenterPrice) + int64(MMDesiredSpread/2+lvl))

		reqs = append(reqs,
			common.LimitOrderRequest{AgentID: a.id, StockID: stockID, Side: common.Buy, Price: bidPx, Volume: vol},
			common.LimitOrderRequest{AgentID: a.id, StockID: stockID, Side: common.Sell, Price: askPx, Volume: vol},
		)
	}
	return reqs
}

func (a *MarketMaker) quoteTwoSided(stockID, center uint64) []common.OrderRequest {
	skew := int64(float64(a.inventory[stockID]) * MMSkewFactor)
	ourCenter := common.ClampPrice(int64(center) - skew)
	ourBid := common.ClampPrice(int64(ourCenter) - int64(MMDesiredSpread)/2)
	ourAsk := common.ClampPrice(int64(ourCenter) + int64(MMDesiredSpread)/2)

	if ourAsk <= ourBid {
		return a.shortCoverOrEmpty(stockID)
	}

	volume := randRange(MMQuoteVolMin, MMQuoteVolMax)
	return []common.OrderRequest{
		common.LimitOrderRequest{AgentID: a.id, StockID: stockID, Side: common.Buy, Price: ourBid, Volume: volume},
		common.LimitOrderRequest{AgentID: a.id, StockID: stockID, Side: common.Sell, Price: ourAsk, Volume: volume},
	}
}

func (a *MarketMaker) oneSidedQuote(stockID uint64, side common.Side, price uint64) common.OrderRequest {
	volume := randRange(MMQuoteVolMin, MMQuoteVolMax)
	return common.LimitOrderRequest{AgentID: a.id, StockID: stockID, Side: side, Price: price, Volume: volume}
}

func (a *MarketMaker) shortCoverOrEmpty(stockID uint64) []common.OrderRequest {
	if a.inventory[stockID] <= MMShortCoverFloor {
		return []common.OrderRequest{
			common.MarketOrderRequest{AgentID: a.id, StockID: stockID, Side: common.Buy, Volume: absInt64(a.inventory[stockID])},
		}
	}
	return nil
}

func (a *MarketMaker) AcknowledgeOrder(o common.Order) {
	a.openOrders[o.ID] = o
}

func (a *MarketMaker) UpdatePortfolio(delta int64, tr common.Trade) {
	a.inventory[tr.StockID] += delta

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

// MarginCall is a no-op: the market maker's short-covering safety valve
// in DecideActions handles risk management instead of a separate margin
// pathway.
func (a *MarketMaker) MarginCall() []common.OrderRequest { return nil }

func (a *MarketMaker) Inventory() int64 {
	var total int64
	for _, v := range a.inventory {
		total += v
	}
	return total
}

func (a *MarketMaker) PendingOrders() []common.Order {
	out := make([]common.Order, 0, len(a.openOrders))
	for _, o := range a.openOrders {
		out = append(out, o)
	}
	return out
}

func (a *MarketMaker) CancelOpenOrder(orderID uint64) []common.OrderRequest {
	if _, ok := a.openOrders[orderID]; !ok {
		return nil
	}
	delete(a.openOrders, orderID)
	return []common.OrderRequest{common.CancelOrderRequest{AgentID: a.id, OrderID: orderID}}
}

func (a *MarketMaker) EvaluatePortfolio(view *market.View) float64 {
	var total float64
	for stockID, vol := range a.inventory {
		if px, ok := view.MidPrice(stockID); ok {
			total += float64(vol) * (float64(px) / 100.0)
		}
	}
	return total
}

func (a *MarketMaker) Clone() market.Agent { return NewMarketMaker(a.id) }
