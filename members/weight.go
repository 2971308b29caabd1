// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package members

import "time"

// DefaultDecayPeriod is the period over which a member's voting weight
// decays to zero.
const DefaultDecayPeriod = 365 * 24 * time.Hour

// Weight returns the voting weight, in whole seconds of remaining decay
// period, of a member that joined at [joinTime].
//
// The decay is linear and deliberately favors recent joiners: a member
// starts at the full period and loses one unit of weight per second of
// tenure, reaching zero after [decayPeriod]. Callers must not assume
// that longer membership means more influence.
//
// A zero [joinTime], or one in the future of [now], yields zero weight.
func Weight(joinTime, now time.Time, decayPeriod time.Duration) uint64 {
	if joinTime.IsZero() || joinTime.After(now) {
		return 0
	}
	elapsed := now.Unix() - joinTime.Unix()
	period := int64(decayPeriod / time.Second)
	if elapsed >= period {
		return 0
	}
	return uint64(period - elapsed)
}
