// Package market orchestrates the discrete-time simulation tick: it builds
// the read-only view agents decide against, routes their requests to the
// right per-symbol order book, and settles resulting trades back into
// agent bookkeeping.
package market

import (
	"context"
	"sort"

	"marketsim/internal/common"
	"marketsim/internal/orderbook"
	"marketsim/internal/stocks"

	"github.com/rs/zerolog/log"
)

// Agent is the contract every simulation participant implements. Market
// calls these in a fixed order every tick; agents never call back into
// Market directly.
type Agent interface {
	ID() uint64
	DecideActions(view *View) []common.OrderRequest
	AcknowledgeOrder(order common.Order)
	UpdatePortfolio(deltaVolume int64, trade common.Trade)
	MarginCall() []common.OrderRequest
	Inventory() int64
	PendingOrders() []common.Order
	CancelOpenOrder(orderID uint64) []common.OrderRequest
	EvaluatePortfolio(view *View) float64
	Clone() Agent
}

// AgentFactory builds a fresh agent with the given id; Reset uses one per
// registered agent to re-spin the simulation to its starting state.
type AgentFactory func(id uint64) Agent

// Market owns every order book and every agent. It is the only mutable
// shared resource in the simulation; agents own only their private state.
type Market struct {
	stocks *stocks.Registry

	books     map[uint64]*orderbook.OrderBook
	agents    map[uint64]Agent
	factories map[uint64]AgentFactory
	agentIDs  []uint64 // sorted ascending, rebuilt on AddAgent

	lastTradedPrice  map[uint64]uint64
	cumulativeVolume map[uint64]uint64
	orderIDCounter   uint64

	sentiment SentimentReader
}

// New builds a market over the given stock universe with empty books and
// last-traded prices seeded from each stock's InitialPrice.
func New(registry *stocks.Registry) *Market {
	m := &Market{
		stocks:           registry,
		books:            make(map[uint64]*orderbook.OrderBook),
		agents:           make(map[uint64]Agent),
		factories:        make(map[uint64]AgentFactory),
		lastTradedPrice:  make(map[uint64]uint64),
		cumulativeVolume: make(map[uint64]uint64),
		sentiment:        noSentiment{},
	}
	for _, s := range registry.All() {
		m.books[s.ID] = orderbook.New(s.ID)
		m.lastTradedPrice[s.ID] = s.InitialPrice
		m.cumulativeVolume[s.ID] = 0
	}
	return m
}

// SetSentiment wires an ambient sentiment source into the view agents
// receive. Without one, Sentiment() reads as a neutral 0 for every symbol.
func (m *Market) SetSentiment(r SentimentReader) {
	m.sentiment = r
}

// AddAgent registers an agent under its own id, remembering factory so a
// later Reset can re-spin an identical fresh instance.
func (m *Market) AddAgent(a Agent, factory AgentFactory) {
	m.agents[a.ID()] = a
	m.factories[a.ID()] = factory
	m.agentIDs = append(m.agentIDs, a.ID())
	sort.Slice(m.agentIDs, func(i, j int) bool { return m.agentIDs[i] < m.agentIDs[j] })
}

// Book returns the order book for a symbol, or nil if unknown.
func (m *Market) Book(stockID uint64) *orderbook.OrderBook {
	return m.books[stockID]
}

// LastTradedPrice returns the last-traded price for a symbol, in cents.
func (m *Market) LastTradedPrice(stockID uint64) uint64 {
	return m.lastTradedPrice[stockID]
}

// CumulativeVolume returns the total volume traded so far for a symbol.
func (m *Market) CumulativeVolume(stockID uint64) uint64 {
	return m.cumulativeVolume[stockID]
}

// TotalInventory sums every registered agent's inventory.
func (m *Market) TotalInventory() int64 {
	var total int64
	for _, id := range m.agentIDs {
		total += m.agents[id].Inventory()
	}
	return total
}

func (m *Market) nextOrderID() uint64 {
	m.orderIDCounter++
	return m.orderIDCounter
}

func (m *Market) view() *View {
	books := make(map[uint64]BookView, len(m.books))
	for id, b := range m.books {
		books[id] = b
	}
	return &View{books: books, stocks: m.stocks, sentiment: m.sentiment}
}

// Tick advances the simulation by exactly one discrete step, running all
// five phases to completion synchronously, and returns every trade
// settled during the tick in emission order. ctx is only consulted
// between ticks by callers looping Tick; it is never checked mid-tick.
func (m *Market) Tick(ctx context.Context) []common.Trade {
	select {
	case <-ctx.Done():
		return nil
	default:
	}

	view := m.view() // Phase 1: Observe

	// Phase 2: Decide, agents polled in ascending id order.
	var batch []common.OrderRequest
	for _, id := range m.agentIDs {
		batch = append(batch, m.agents[id].DecideActions(view)...)
	}

	var trades []common.Trade

	// Phase 3: Execute, requests processed in emission order.
	for _, req := range batch {
		trades = append(trades, m.execute(req)...)
	}

	// Phase 4: Margin, agents polled in ascending id order.
	var marginBatch []common.OrderRequest
	for _, id := range m.agentIDs {
		marginBatch = append(marginBatch, m.agents[id].MarginCall()...)
	}
	for _, req := range marginBatch {
		trades = append(trades, m.execute(req)...)
	}

	// Phase 5: Settle, trades applied in emission order.
	for _, tr := range trades {
		m.settle(tr)
	}

	log.Debug().
		Int("requests", len(batch)+len(marginBatch)).
		Int("trades", len(trades)).
		Msg("tick complete")

	return trades
}

// execute routes a single request to the right order book, stamping a
// fresh order id and acknowledging it to the owning agent before the book
// ever sees it, per the ordering the Execute phase requires.
func (m *Market) execute(req common.OrderRequest) []common.Trade {
	switch r := req.(type) {
	case common.LimitOrderRequest:
		return m.executeLimit(r)
	case common.MarketOrderRequest:
		return m.executeMarket(r)
	case common.CancelOrderRequest:
		m.executeCancel(r)
		return nil
	default:
		return nil
	}
}

func (m *Market) executeLimit(r common.LimitOrderRequest) []common.Trade {
	if r.Volume == 0 {
		return nil
	}
	book, ok := m.books[r.StockID]
	if !ok {
		return nil
	}
	order := &common.Order{
		ID:      m.nextOrderID(),
		AgentID: r.AgentID,
		StockID: r.StockID,
		Side:    r.Side,
		Price:   r.Price,
		Volume:  r.Volume,
	}
	if agent, ok := m.agents[r.AgentID]; ok {
		agent.AcknowledgeOrder(*order)
	}
	return book.ProcessLimitOrder(order)
}

func (m *Market) executeMarket(r common.MarketOrderRequest) []common.Trade {
	if r.Volume == 0 {
		return nil
	}
	book, ok := m.books[r.StockID]
	if !ok {
		return nil
	}
	// Price is for logging/acknowledgement only; the book ignores it for
	// market orders.
	order := &common.Order{
		ID:      m.nextOrderID(),
		AgentID: r.AgentID,
		StockID: r.StockID,
		Side:    r.Side,
		Price:   m.lastTradedPrice[r.StockID],
		Volume:  r.Volume,
	}
	if agent, ok := m.agents[r.AgentID]; ok {
		agent.AcknowledgeOrder(*order)
	}
	return book.ProcessMarketOrder(order)
}

// executeCancel tries every book until one recognizes the order id; the
// request carries no stock id, so the first match short-circuits. A
// single global index would be a valid optimization.
func (m *Market) executeCancel(r common.CancelOrderRequest) {
	for _, id := range m.stocks.IDs() {
		if m.books[id].CancelOrder(r.OrderID, r.AgentID) {
			return
		}
	}
}

func (m *Market) settle(tr common.Trade) {
	deltaTaker := int64(tr.Volume)
	if tr.TakerSide == common.Sell {
		deltaTaker = -deltaTaker
	}
	if taker, ok := m.agents[tr.TakerAgentID]; ok {
		taker.UpdatePortfolio(deltaTaker, tr)
	}
	if maker, ok := m.agents[tr.MakerAgentID]; ok {
		maker.UpdatePortfolio(-deltaTaker, tr)
	}

	m.lastTradedPrice[tr.StockID] = tr.Price
	m.cumulativeVolume[tr.StockID] += tr.Volume
}

// Reset restores the market to its starting state: empty books, initial
// prices from stock metadata, zero cumulative volumes, fresh agents at the
// same ids, and an order id counter back at zero.
func (m *Market) Reset() {
	for id, s := range m.stockByID() {
		m.books[id] = orderbook.New(id)
		m.lastTradedPrice[id] = s.InitialPrice
		m.cumulativeVolume[id] = 0
	}
	for id, factory := range m.factories {
		m.agents[id] = factory(id)
	}
	m.orderIDCounter = 0
	log.Info().Msg("market reset")
}

func (m *Market) stockByID() map[uint64]stocks.Stock {
	out := make(map[uint64]stocks.Stock, len(m.books))
	for _, s := range m.stocks.All() {
		out[s.ID] = s
	}
	return out
}
