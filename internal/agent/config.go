// Package agent implements the simulator's agent contract and the five
// reference archetypes built on top of it.
package agent

// Tuning constants for reference agent archetypes. Grouped by archetype,
// mirroring how the simulator's original tuning file was organized.
const (
	MarginCallThreshold int64 = -20_000

	// MarketMaker
	MMInitialInventory   int64   = 100_000_000
	MMInitialCenterPrice uint64  = 15_000
	MMDesiredSpread      uint64  = 25
	MMSkewFactor         float64 = 0.00001
	MMSeedLevels         int     = 10
	MMSeedBaseVolume     uint64  = 30_000
	MMSeedVolumeTaper    uint64  = 2_000
	MMQuoteVolMin        uint64  = 50_000
	MMQuoteVolMax        uint64  = 100_000
	MMShortCoverFloor    int64   = -20_000

	// Retail / "Dumb" ensemble
	DumbNumTraders       uint32  = 50
	DumbActionProb       float64 = 0.3
	DumbTypicalVolMin    uint64  = 1
	DumbTypicalVolMax    uint64  = 50
	DumbLargeVolChance   float64 = 0.001
	DumbLargeVolMin      uint64  = 7_500
	DumbLargeVolMax      uint64  = 750_000
	DumbInitialCash      float64 = 1_000_000_000.0
	DumbMargin           float64 = 4_000_000_000.0

	// DumbLimit ensemble
	LimitNumTraders  uint32  = 200
	LimitActionProb  float64 = 0.5
	LimitVolMin      uint64  = 500
	LimitVolMax      uint64  = 5_000
	LimitMaxOffset   uint64  = 200
	LimitInventory   int64   = 200_000_000
	LimitInitialCash float64 = 100_000_000.0
	LimitMargin      float64 = 10_000_000_000.0

	// Whale
	WhaleInitialInventory int64   = 50_000_000
	WhaleActionProb       float64 = 0.01
	WhaleOrderVolume      uint64  = 1_000_000
	WhalePriceOffsetMin   uint64  = 500
	WhalePriceOffsetMax   uint64  = 1_000
	WhaleCrazyProb        float64 = 0.01
	WhaleInitialCash      float64 = 1_000_000_000_000.0
	WhaleMargin           float64 = 10_000_000_000_000.0

	// IPO
	IPOLadderLevels   uint64 = 20
	IPOStartPrice     uint64 = 15_000
	IPOTickSize       uint64 = 5
	IPOFloatToDistrib int64  = 1_000_000

	// Default population sizes for a batch simulation run.
	MMPoolSize    = 2
	DumbPoolSize  = 20
	LimitPoolSize = 10
	WhalePoolSize = 2
)
