package model

import "strconv"

// ClickLimit is a click budget: either unlimited or a non-negative count.
// The zero value is unlimited.
type ClickLimit struct {
	limited bool
	n       int
}

// Unlimited returns a limit that never runs out.
func Unlimited() ClickLimit {
	return ClickLimit{}
}

// Limit returns a budget of n clicks. n must be >= 0; the registry
// rejects user-supplied limits below 1 before they get here.
func Limit(n int) ClickLimit {
	return ClickLimit{limited: true, n: n}
}

// IsLimited reports whether the budget is finite.
func (l ClickLimit) IsLimited() bool {
	return l.limited
}

// Count returns the number of clicks left. Only meaningful when IsLimited.
func (l ClickLimit) Count() int {
	return l.n
}

// Exhausted reports whether a finite budget has reached zero.
func (l ClickLimit) Exhausted() bool {
	return l.limited && l.n <= 0
}

// Decrement returns the budget reduced by one click. Unlimited budgets
// are returned unchanged; finite budgets never go below zero.
func (l ClickLimit) Decrement() ClickLimit {
	if !l.limited || l.n <= 0 {
		return l
	}
	return ClickLimit{limited: true, n: l.n - 1}
}

// String renders the budget for display: the count, or "∞" when unlimited.
func (l ClickLimit) String() string {
	if !l.limited {
		return "∞"
	}
	return strconv.Itoa(l.n)
}
