package sample

import "log/slog"

const (
	// yieldWindow is the number of draws before the acceptance ratio is
	// judged.
	yieldWindow = 200
	// minYield is the accepted fraction below which the valve opens.
	minYield = 0.01
)

// yieldGuard tracks the acceptance ratio of a rejection sampler and opens
// once the ratio is too low.
type yieldGuard struct {
	name     string
	logger   *slog.Logger
	draws    int
	accepted int
	open     bool
}

// admit records one draw and reports whether it should be returned.
func (g *yieldGuard) admit(ok bool) bool {
	if g.open {
		return true
	}
	g.draws++
	if ok {
		g.accepted++
		return true
	}
	if g.draws >= yieldWindow && float64(g.accepted) < minYield*float64(g.draws) {
		g.open = true
		g.logger.Warn("sampler yield too low, accepting all draws",
			"sampler", g.name,
			"draws", g.draws,
			"accepted", g.accepted)
		return true
	}
	return false
}
