package download

// throttle drops downloading-progress callbacks that advance less than step
// percent past the last emitted one, so message edits stay within the
// platform's rate limits. finished events always pass through. State is
// local to one download invocation.
type throttle struct {
	step     float64
	lastEmit float64
	sink     func(Progress)
}

func newThrottle(step int, sink func(Progress)) *throttle {
	return &throttle{step: float64(step), sink: sink}
}

func (t *throttle) report(p Progress) {
	if t.sink == nil {
		return
	}
	switch p.Status {
	case StatusDownloading:
		if p.Percent-t.lastEmit < t.step {
			return
		}
		t.lastEmit = p.Percent
		t.sink(p)
	case StatusFinished:
		t.sink(p)
	}
}
