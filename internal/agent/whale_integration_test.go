package agent

import (
	"context"
	"testing"

	"marketsim/internal/common"
	"marketsim/internal/market"

	"github.com/stretchr/testify/assert"
)

func hasOrderID(orders []common.Order, id uint64) bool {
	for _, o := range orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

func TestWhaleEventuallyCancelsStaleRestingOrders(t *testing.T) {
	reg := testRegistry()
	m := market.New(reg)

	a := NewWhale(1)
	a.ticksUntilActive = 0
	a.AcknowledgeOrder(common.Order{ID: 501, AgentID: 1, StockID: testStockID, Side: common.Buy, Price: 14_000, Volume: 500_000})
	a.AcknowledgeOrder(common.Order{ID: 502, AgentID: 1, StockID: testStockID, Side: common.Sell, Price: 16_000, Volume: 500_000})
	m.AddAgent(a, func(id uint64) market.Agent { return NewWhale(id) })

	cancelled := false
	for i := 0; i < 1000; i++ {
		m.Tick(context.Background())
		pending := a.PendingOrders()
		if !hasOrderID(pending, 501) && !hasOrderID(pending, 502) {
			cancelled = true
			break
		}
	}
	assert.True(t, cancelled, "the whale should eventually cancel its stale resting orders")
}
