package market

import (
	"marketsim/internal/common"
	"marketsim/internal/stocks"
)

// BookView is the read-only slice of *orderbook.OrderBook handed to agents.
// It deliberately omits ProcessLimitOrder/ProcessMarketOrder/CancelOrder so
// an agent holding a View cannot mutate the book it is inspecting.
type BookView interface {
	BestBid() (uint64, bool)
	BestAsk() (uint64, bool)
	LevelVolume(side common.Side, price uint64) uint64
	Orders(side common.Side, price uint64) []common.Order
	Len(side common.Side) int
}

// SentimentReader is the read-through hook into the ambient sentiment
// signal. A Market with no sentiment source wired in returns 0 for every
// symbol, which is a neutral reading.
type SentimentReader interface {
	Sentiment(stockID uint64) float64
}

type noSentiment struct{}

func (noSentiment) Sentiment(uint64) float64 { return 0 }

// View is the read-only snapshot of market state an agent receives for one
// tick's Decide phase. Agents must not retain it past that call.
type View struct {
	books     map[uint64]BookView
	stocks    *stocks.Registry
	sentiment SentimentReader
}

// Book returns a read-only handle to the book for stockID.
func (v *View) Book(stockID uint64) (BookView, bool) {
	b, ok := v.books[stockID]
	return b, ok
}

// Stocks exposes the immutable stock metadata registry.
func (v *View) Stocks() *stocks.Registry {
	return v.stocks
}

// Sentiment reports the ambient sentiment reading for a symbol, in
// [-1, 1], or 0 if no sentiment source was wired in.
func (v *View) Sentiment(stockID uint64) float64 {
	return v.sentiment.Sentiment(stockID)
}

// MidPrice returns (best_bid+best_ask)/2 for a symbol, or false when
// either side of the book is empty.
func (v *View) MidPrice(stockID uint64) (uint64, bool) {
	book, ok := v.Book(stockID)
	if !ok {
		return 0, false
	}
	bid, ok := book.BestBid()
	if !ok {
		return 0, false
	}
	ask, ok := book.BestAsk()
	if !ok {
		return 0, false
	}
	return (bid + ask) / 2, true
}
