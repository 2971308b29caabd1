// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockSetAdvance(t *testing.T) {
	require := require.New(t)

	clock := &Clock{}
	start := time.Unix(100, 0)

	clock.Set(start)
	require.Equal(start, clock.Time())
	require.Equal(uint64(100), clock.Unix())

	clock.Advance(25 * time.Second)
	require.Equal(start.Add(25*time.Second), clock.Time())

	clock.Sync()
	require.WithinDuration(time.Now(), clock.Time(), time.Minute)
}

func TestClockUnixClampsBeforeEpoch(t *testing.T) {
	require := require.New(t)

	clock := &Clock{}
	clock.Set(time.Unix(-42, 0))
	require.Zero(clock.Unix())
}
