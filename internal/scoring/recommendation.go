package scoring

// Recommendation labels
const (
	StrongBuy = "STRONG BUY"
	Buy       = "BUY"
	Hold      = "HOLD"
	Sell      = "SELL"
)

// Recommendation maps a 0-100 score to an action label
func Recommendation(score int) string {
	switch {
	case score >= 85:
		return StrongBuy
	case score >= 70:
		return Buy
	case score <= 30:
		return Sell
	default:
		return Hold
	}
}
