package ledger

import "hourbank/internal/domain/balance"

// Filter narrows a listing; nil fields are not applied.
type Filter struct {
	Year  *int
	Month *int
}

func (f Filter) matches(p balance.Period) bool {
	if f.Year != nil && p.Year != *f.Year {
		return false
	}
	if f.Month != nil && p.Month != *f.Month {
		return false
	}
	return true
}
