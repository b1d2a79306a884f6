package sca

import "sca-tree/pkg/core"

// injector schedules attractor injection as a homogeneous Poisson process
// over rounds. countdown is the number of rounds left until the next event
// and carries over between rounds and between Iterate calls.
type injector struct {
	perRound  float64
	countdown float64
}

// setRate changes the rate in events per 1000 rounds. The countdown restarts
// only when the rate changes.
func (in *injector) setRate(per1000 float64, rng *core.RNG) {
	rate := per1000 / 1000
	if rate == in.perRound {
		return
	}
	in.perRound = rate
	in.countdown = rng.Exp(rate)
}

// tick advances one round and returns how many events fired in it.
func (in *injector) tick(rng *core.RNG) int {
	if in.perRound <= 0 {
		return 0
	}
	in.countdown--
	n := 0
	for in.countdown <= 0 {
		n++
		in.countdown += rng.Exp(in.perRound)
	}
	return n
}
