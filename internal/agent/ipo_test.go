package agent_test

import (
	"context"
	"testing"

	"marketsim/internal/agent"
	"marketsim/internal/common"
	"marketsim/internal/market"
	"marketsim/internal/stocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleStockRegistry() *stocks.Registry {
	return stocks.New([]stocks.Stock{{ID: 1, Ticker: "AAPL", CompanyName: "Apple", TotalFloat: 1_000_000, InitialPrice: 15_000}})
}

func TestIPOPostsLadderOnFirstTick(t *testing.T) {
	reg := singleStockRegistry()
	m := market.New(reg)
	m.AddAgent(agent.NewIPO(1), func(id uint64) market.Agent { return agent.NewIPO(id) })

	m.Tick(context.Background())

	book := m.Book(1)
	require.NotNil(t, book)
	assert.Equal(t, agent.IPOLadderLevels, uint64(book.Len(common.Sell)))

	orders := book.Orders(common.Sell, agent.IPOStartPrice)
	require.Len(t, orders, 1)
	assert.Equal(t, uint64(1), orders[0].AgentID)
}

func TestIPONeverActsTwice(t *testing.T) {
	reg := singleStockRegistry()
	m := market.New(reg)
	m.AddAgent(agent.NewIPO(1), func(id uint64) market.Agent { return agent.NewIPO(id) })

	m.Tick(context.Background())
	firstLevels := m.Book(1).Len(common.Sell)

	m.Tick(context.Background())
	assert.Equal(t, firstLevels, m.Book(1).Len(common.Sell), "no new orders should be posted on the second tick")
}

func TestIPOInventoryDecreasesOnFill(t *testing.T) {
	ipo := agent.NewIPO(1)
	startInventory := ipo.Inventory()

	order := common.Order{ID: 1, AgentID: 1, StockID: 1, Side: common.Sell, Price: agent.IPOStartPrice, Volume: 100}
	ipo.AcknowledgeOrder(order)

	tr := common.Trade{StockID: 1, Price: agent.IPOStartPrice, Volume: 40, TakerAgentID: 2, MakerAgentID: 1, MakerOrderID: 1}
	ipo.UpdatePortfolio(-40, tr)

	assert.Equal(t, startInventory-40, ipo.Inventory())
	pending := ipo.PendingOrders()
	require.Len(t, pending, 1)
	assert.Equal(t, uint64(40), pending[0].Filled)
}
