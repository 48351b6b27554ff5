package indicator

// CrossUp reports that a moved from at-or-below b at i-1 to above b at i.
// Any undefined input yields false.
func CrossUp(a, b Series, i int) bool {
	prevA, ok1 := a.Get(i - 1)
	prevB, ok2 := b.Get(i - 1)
	curA, ok3 := a.Get(i)
	curB, ok4 := b.Get(i)

	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}

	return prevA <= prevB && curA > curB
}

// CrossDown reports that a moved from at-or-above b at i-1 to below b at i.
func CrossDown(a, b Series, i int) bool {
	prevA, ok1 := a.Get(i - 1)
	prevB, ok2 := b.Get(i - 1)
	curA, ok3 := a.Get(i)
	curB, ok4 := b.Get(i)

	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}

	return prevA >= prevB && curA < curB
}

// GoldenCross reports a histogram flip from non-positive to positive at i.
func GoldenCross(histogram Series, i int) bool {
	prev, ok1 := histogram.Get(i - 1)
	cur, ok2 := histogram.Get(i)

	return ok1 && ok2 && prev <= 0 && cur > 0
}

// DeadCross reports a histogram flip from non-negative to negative at i.
func DeadCross(histogram Series, i int) bool {
	prev, ok1 := histogram.Get(i - 1)
	cur, ok2 := histogram.Get(i)

	return ok1 && ok2 && prev >= 0 && cur < 0
}
