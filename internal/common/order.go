package common

import "fmt"

// Order is a resting order in a book: a limit order that has been accepted
// and, if not fully matched immediately, is waiting at its price level.
// Volume is the total quantity originally requested; Filled is the
// cumulative quantity matched so far. Invariant: Filled <= Volume.
type Order struct {
	ID      uint64
	AgentID uint64
	StockID uint64
	Side    Side
	Price   uint64 // cents
	Volume  uint64
	Filled  uint64
}

// Remaining reports the quantity still open on this order.
func (o *Order) Remaining() uint64 {
	return o.Volume - o.Filled
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{id=%d agent=%d stock=%d side=%v price=%d vol=%d filled=%d}",
		o.ID, o.AgentID, o.StockID, o.Side, o.Price, o.Volume, o.Filled,
	)
}
