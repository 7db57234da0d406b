package common

import "fmt"

// Trade is an execution report emitted when a taker order crosses a resting
// maker order. Volume is the quantity exchanged at Price.
type Trade struct {
	StockID      uint64
	Price        uint64
	Volume       uint64
	TakerAgentID uint64
	MakerAgentID uint64
	TakerSide    Side
	MakerOrderID uint64
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{stock=%d price=%d vol=%d taker=%d(%v) maker=%d makerOrder=%d}",
		t.StockID, t.Price, t.Volume, t.TakerAgentID, t.TakerSide, t.MakerAgentID, t.MakerOrderID,
	)
}
