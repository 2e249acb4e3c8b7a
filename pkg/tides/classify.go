package tides

// Classify sets the phase of cur from its height relative to prev, which is nil
// for the first sample of a series. When the water turns, prev is rewritten to
// the High or Low it turned out to be and Classify reports true. A prev that is
// still Unknown takes on the direction cur establishes.
func Classify(prev, cur *Sample) (confirmed bool) {
	if prev == nil {
		cur.Phase = Unknown
		return false
	}

	switch {
	case cur.Height > prev.Height:
		if prev.Phase == Ebb {
			prev.Phase = Low
			confirmed = true
		} else if prev.Phase == Unknown {
			prev.Phase = Flood
		}
		cur.Phase = Flood
	case cur.Height < prev.Height:
		if prev.Phase == Flood {
			prev.Phase = High
			confirmed = true
		} else if prev.Phase == Unknown {
			prev.Phase = Ebb
		}
		cur.Phase = Ebb
	default:
		// Slack water carries the previous phase forward.
		cur.Phase = prev.Phase
	}
	return confirmed
}
