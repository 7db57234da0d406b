package orderbook

import (
	"testing"

	"marketsim/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers -----------------------------------------------------------

var nextTestID uint64

func freshID() uint64 {
	nextTestID++
	return nextTestID
}

func newLimit(agentID uint64, side common.Side, price, volume uint64) *common.Order {
	return &common.Order{ID: freshID(), AgentID: agentID, StockID: 1, Side: side, Price: price, Volume: volume}
}

func newMarket(agentID uint64, side common.Side, volume uint64) *common.Order {
	return &common.Order{ID: freshID(), AgentID: agentID, StockID: 1, Side: side, Volume: volume}
}

// --- a market order is fully filled by part of a single resting order ------

func TestSimpleCross(t *testing.T) {
	book := New(1)

	sell := newLimit(1, common.Sell, 15000, 50)
	trades := book.ProcessLimitOrder(sell)
	assert.Empty(t, trades)

	buy := newMarket(2, common.Buy, 30)
	trades = book.ProcessMarketOrder(buy)

	require.Len(t, trades, 1)
	assert.Equal(t, common.Trade{
		StockID: 1, Price: 15000, Volume: 30,
		TakerAgentID: 2, MakerAgentID: 1, TakerSide: common.Buy, MakerOrderID: sell.ID,
	}, trades[0])

	assert.EqualValues(t, 20, book.LevelVolume(common.Sell, 15000))
	resting := book.Orders(common.Sell, 15000)
	require.Len(t, resting, 1)
	assert.EqualValues(t, 30, resting[0].Filled)
}

// --- a large market order sweeps multiple price levels ---------------------

func TestSweepMultipleLevels(t *testing.T) {
	book := New(1)

	book.ProcessLimitOrder(newLimit(1, common.Sell, 100, 20))
	book.ProcessLimitOrder(newLimit(1, common.Sell, 101, 30))
	book.ProcessLimitOrder(newLimit(1, common.Sell, 102, 40))

	trades := book.ProcessMarketOrder(newMarket(2, common.Buy, 100))

	require.Len(t, trades, 3)
	assert.Equal(t, []uint64{100, 101, 102}, []uint64{trades[0].Price, trades[1].Price, trades[2].Price})
	assert.EqualValues(t, 20, trades[0].Volume)
	assert.EqualValues(t, 30, trades[1].Volume)
	assert.EqualValues(t, 40, trades[2].Volume)

	assert.Equal(t, 0, book.Len(common.Sell))

	var sum uint64
	for _, tr := range trades {
		sum += tr.Volume
	}
	assert.EqualValues(t, 90, sum)
}

// --- a marketable limit order stops at its own limit price -----------------

func TestMarketableLimitPriceProtection(t *testing.T) {
	book := New(1)

	book.ProcessLimitOrder(newLimit(1, common.Sell, 100, 30))
	book.ProcessLimitOrder(newLimit(1, common.Sell, 105, 30))

	buy := newLimit(2, common.Buy, 103, 50)
	trades := book.ProcessLimitOrder(buy)

	require.Len(t, trades, 1)
	assert.EqualValues(t, 100, trades[0].Price)
	assert.EqualValues(t, 30, trades[0].Volume)

	resting := book.Orders(common.Buy, 103)
	require.Len(t, resting, 1)
	assert.EqualValues(t, 20, resting[0].Remaining())

	assert.Equal(t, 1, book.Len(common.Sell))
	remainingAsk := book.Orders(common.Sell, 105)
	require.Len(t, remainingAsk, 1)
	assert.EqualValues(t, 30, remainingAsk[0].Remaining())
}

// --- cancelling a partially filled order removes only its remainder -------

func TestCancelAfterPartialFill(t *testing.T) {
	book := New(1)

	sell := newLimit(1, common.Sell, 100, 100)
	book.ProcessLimitOrder(sell)
	book.ProcessMarketOrder(newMarket(2, common.Buy, 40))

	ok := book.CancelOrder(sell.ID, 1)
	assert.True(t, ok)
	assert.Equal(t, 0, book.Len(common.Sell))

	ok = book.CancelOrder(sell.ID, 1)
	assert.False(t, ok)
}

// --- an agent cannot cancel another agent's order ---------------------------

func TestForeignCancelRejected(t *testing.T) {
	book := New(1)

	buy := newLimit(1, common.Buy, 100, 50)
	book.ProcessLimitOrder(buy)

	ok := book.CancelOrder(buy.ID, 2)
	assert.False(t, ok)

	resting := book.Orders(common.Buy, 100)
	require.Len(t, resting, 1)
	assert.EqualValues(t, 50, resting[0].Remaining())
}

// --- posting then cancelling an order returns the book to its prior state --

func TestRoundTripPostCancel(t *testing.T) {
	book := New(1)
	book.ProcessLimitOrder(newLimit(1, common.Buy, 9000, 10))
	assert.Equal(t, 1, book.Len(common.Buy))

	order := newLimit(2, common.Buy, 9000, 25)
	book.ProcessLimitOrder(order)
	assert.True(t, book.CancelOrder(order.ID, 2))

	assert.Equal(t, 1, book.Len(common.Buy))
	assert.EqualValues(t, 10, book.LevelVolume(common.Buy, 9000))
}

// --- a market order fully satisfied by a single price level ----------------

func TestMarketOrderSingleLevel(t *testing.T) {
	book := New(1)
	book.ProcessLimitOrder(newLimit(1, common.Sell, 500, 80))

	trades := book.ProcessMarketOrder(newMarket(2, common.Buy, 30))
	require.Len(t, trades, 1)
	assert.EqualValues(t, 500, trades[0].Price)
	assert.EqualValues(t, 30, trades[0].Volume)
}

// --- a market order exhausting multiple price levels on one side -----------

func TestMarketOrderExhaustsLevels(t *testing.T) {
	book := New(1)
	book.ProcessLimitOrder(newLimit(1, common.Sell, 500, 10))
	book.ProcessLimitOrder(newLimit(1, common.Sell, 501, 10))

	trades := book.ProcessMarketOrder(newMarket(2, common.Buy, 1000))

	var sum uint64
	for _, tr := range trades {
		sum += tr.Volume
	}
	assert.GreaterOrEqual(t, len(trades), 2)
	assert.EqualValues(t, 20, sum)
	assert.Equal(t, 0, book.Len(common.Sell))
}

// --- price-time priority: earlier orders at a price level fill first -------

func TestPriceTimePriority(t *testing.T) {
	book := New(1)

	first := newLimit(1, common.Sell, 100, 10)
	second := newLimit(2, common.Sell, 100, 10)
	book.ProcessLimitOrder(first)
	book.ProcessLimitOrder(second)

	trades := book.ProcessMarketOrder(newMarket(3, common.Buy, 15))
	require.Len(t, trades, 2)
	assert.Equal(t, first.ID, trades[0].MakerOrderID)
	assert.Equal(t, second.ID, trades[1].MakerOrderID)
}

// --- empty levels are evicted and aggregate volume accounting stays correct -

func TestEmptyLevelsEvicted(t *testing.T) {
	book := New(1)
	sell := newLimit(1, common.Sell, 100, 10)
	book.ProcessLimitOrder(sell)

	book.ProcessMarketOrder(newMarket(2, common.Buy, 10))

	assert.Equal(t, 0, book.Len(common.Sell))
	assert.EqualValues(t, 0, book.LevelVolume(common.Sell, 100))
}

// --- empty opposite side returns no trades, no panic -------------------------

func TestMarketOrderEmptyBook(t *testing.T) {
	book := New(1)
	trades := book.ProcessMarketOrder(newMarket(1, common.Buy, 10))
	assert.Empty(t, trades)
}

// --- zero volume requests are silently dropped --------------------------------

func TestZeroVolumeDropped(t *testing.T) {
	book := New(1)
	order := &common.Order{ID: freshID(), AgentID: 1, StockID: 1, Side: common.Buy, Price: 100, Volume: 0}
	trades := book.ProcessLimitOrder(order)
	assert.Empty(t, trades)
	assert.Equal(t, 0, book.Len(common.Buy))
}

// --- an agent can trade against its own resting order -----------------------

func TestSelfTradePermitted(t *testing.T) {
	book := New(1)
	book.ProcessLimitOrder(newLimit(7, common.Sell, 100, 10))
	trades := book.ProcessMarketOrder(newMarket(7, common.Buy, 10))
	require.Len(t, trades, 1)
	assert.EqualValues(t, 7, trades[0].TakerAgentID)
	assert.EqualValues(t, 7, trades[0].MakerAgentID)
}
