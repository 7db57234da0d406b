// Package telemetry sketches the CSV run recorder mentioned as an
// external collaborator: a sink that tails the market's public state
// after each tick for later offline analysis. It never feeds back into
// matching.
package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"marketsim/internal/common"
)

// TradeWriter appends settled trades to a CSV file, one row per trade.
type TradeWriter struct {
	w      *csv.Writer
	closer io.Closer
}

var tradeHeader = []string{"tick", "stock_id", "price", "volume", "taker_agent_id", "maker_agent_id", "taker_side"}

// NewTradeWriter creates (or truncates) a CSV file at path and writes
// its header row.
func NewTradeWriter(path string) (*TradeWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(tradeHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("telemetry: write header: %w", err)
	}
	return &TradeWriter{w: w, closer: f}, nil
}

// WriteTick appends every trade settled during tick to the file.
func (tw *TradeWriter) WriteTick(tick uint64, trades []common.Trade) error {
	for _, tr := range trades {
		row := []string{
			fmt.Sprintf("%d", tick),
			fmt.Sprintf("%d", tr.StockID),
			fmt.Sprintf("%d", tr.Price),
			fmt.Sprintf("%d", tr.Volume),
			fmt.Sprintf("%d", tr.TakerAgentID),
			fmt.Sprintf("%d", tr.MakerAgentID),
			tr.TakerSide.String(),
		}
		if err := tw.w.Write(row); err != nil {
			return fmt.Errorf("telemetry: write trade row: %w", err)
		}
	}
	return nil
}

// Close flushes buffered rows and closes the underlying file.
func (tw *TradeWriter) Close() error {
	tw.w.Flush()
	if err := tw.w.Error(); err != nil {
		return err
	}
	return tw.closer.Close()
}
