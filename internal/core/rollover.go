package core

// RolloverBalances computes the carried-forward envelope balance for an
// ordered sequence of monthly amounts against a reference budget.
//
// The first month starts with nothing carried in. Each later month carries
// the previous balance plus whatever the previous month left unspent
// (negative when it overspent), floored at zero: an envelope never carries
// debt, it only resets toward zero.
func RolloverBalances(reference float64, amounts []float64) []float64 {
	balances := make([]float64, len(amounts))
	if len(amounts) == 0 {
		return balances
	}
	balances[0] = 0
	for i := 1; i < len(amounts); i++ {
		carried := balances[i-1] + (reference - amounts[i-1])
		if carried < 0 {
			carried = 0
		}
		balances[i] = carried
	}
	return balances
}
