package agent

import (
	"testing"

	"marketsim/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketMakerSeedsLadderOnFirstTouch(t *testing.T) {
	a := NewMarketMaker(0)
	reqs := a.seedLiquidity(testStockID)

	require.Len(t, reqs, MMSeedLevels*2)
	var buys, sells int
	for _, r := range reqs {
		lo, ok := r.(common.LimitOrderRequest)
		require.True(t, ok)
		if lo.Side == common.Buy {
			buys++
		} else {
			sells++
		}
		assert.GreaterOrEqual(t, lo.Price, common.MinPrice)
		assert.LessOrEqual(t, lo.Price, common.MaxPrice)
	}
	assert.Equal(t, MMSeedLevels, buys)
	assert.Equal(t, MMSeedLevels, sells)
}

func TestMarketMakerQuotesAreSkewedByInventory(t *testing.T) {
	long := NewMarketMaker(0)
	long.inventory[testStockID] = 1_000_000

	short := NewMarketMaker(1)
	short.inventory[testStockID] = -1_000_000

	longQuotes := long.quoteTwoSided(testStockID, MMInitialCenterPrice)
	shortQuotes := short.quoteTwoSided(testStockID, MMInitialCenterPrice)
	require.Len(t, longQuotes, 2)
	require.Len(t, shortQuotes, 2)

	longBid := longQuotes[0].(common.LimitOrderRequest).Price
	shortBid := shortQuotes[0].(common.LimitOrderRequest).Price
	assert.Less(t, longBid, shortBid, "a long inventory should skew quotes lower to encourage selling")
}

func TestMarketMakerShortCoverValveFiresBelowFloor(t *testing.T) {
	a := NewMarketMaker(0)
	a.inventory[testStockID] = MMShortCoverFloor - 1

	reqs := a.shortCoverOrEmpty(testStockID)
	require.Len(t, reqs, 1)
	mo, ok := reqs[0].(common.MarketOrderRequest)
	require.True(t, ok)
	assert.Equal(t, common.Buy, mo.Side)
}

func TestMarketMakerShortCoverValveSilentAboveFloor(t *testing.T) {
	a := NewMarketMaker(0)
	a.inventory[testStockID] = MMShortCoverFloor + 1
	assert.Empty(t, a.shortCoverOrEmpty(testStockID))
}

func TestMarketMakerMarginCallIsNoop(t *testing.T) {
	a := NewMarketMaker(0)
	assert.Empty(t, a.MarginCall())
}
