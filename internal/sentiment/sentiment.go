// Package sentiment runs the simulator's ambient sentiment signal as a
// background goroutine, deliberately outside core mutable state: Market
// and the order books never write to it, agents only ever read it
// through a MarketView.
package sentiment

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

// Config tunes how often the table updates, how likely a symbol is to
// spike to a fresh random reading on any given update, and how quickly an
// un-spiked reading decays back toward zero.
type Config struct {
	TickInterval time.Duration
	SpikeProb    float64
	HalfLife     time.Duration
}

// Table is a decaying per-symbol sentiment reading in [-1, 1], updated by
// a single supervised background goroutine and read by any number of
// goroutines concurrently.
type Table struct {
	mu      sync.RWMutex
	values  map[uint64]float64
	cfg     Config
	t       tomb.Tomb
	started bool
}

// New seeds a table at 0.0 for every given symbol. Call Start to begin
// the background decay loop.
func New(stockIDs []uint64, cfg Config) *Table {
	values := make(map[uint64]float64, len(stockIDs))
	for _, id := range stockIDs {
		values[id] = 0.0
	}
	return &Table{values: values, cfg: cfg}
}

// Start launches the decay loop under tomb supervision. Safe to call
// once; a second call is a no-op.
func (tbl *Table) Start() {
	if tbl.started {
		return
	}
	tbl.started = true
	tbl.t.Go(tbl.run)
}

// Stop signals the decay loop to exit and waits for it.
func (tbl *Table) Stop() error {
	tbl.t.Kill(nil)
	return tbl.t.Wait()
}

func (tbl *Table) run() error {
	ticker := time.NewTicker(tbl.cfg.TickInterval)
	defer ticker.Stop()

	decay := math.Pow(2, -tbl.cfg.TickInterval.Seconds()/tbl.cfg.HalfLife.Seconds())
	log.Info().Dur("interval", tbl.cfg.TickInterval).Msg("sentiment loop starting")

	for {
		select {
		case <-tbl.t.Dying():
			log.Info().Msg("sentiment loop stopping")
			return nil
		case <-ticker.C:
			tbl.step(decay)
		}
	}
}

func (tbl *Table) step(decay float64) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	for id, v := range tbl.values {
		if rand.Float64() < tbl.cfg.SpikeProb {
			v = rand.Float64()*2 - 1
		} else {
			v *= decay
		}
		tbl.values[id] = clamp(v, -1, 1)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sentiment returns the latest reading for a symbol, or 0 if the symbol
// was never registered.
func (tbl *Table) Sentiment(stockID uint64) float64 {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	return tbl.values[stockID]
}
