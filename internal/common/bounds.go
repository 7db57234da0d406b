package common

// Price bounds in cents. Any quote clamped to this band is still accepted;
// nothing outside it should ever be posted.
const (
	MinPrice uint64 = 100       // $1.00
	MaxPrice uint64 = 3_000_000 // $30,000.00
)

// ClampPrice pins p to [MinPrice, MaxPrice].
func ClampPrice(p int64) uint64 {
	if p < int64(MinPrice) {
		return MinPrice
	}
	if p > int64(MaxPrice) {
		return MaxPrice
	}
	return uint64(p)
}
