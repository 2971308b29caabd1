// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package members

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeight(t *testing.T) {
	decay := 100 * time.Second
	joined := time.Unix(0, 0)

	tests := []struct {
		name     string
		joinTime time.Time
		now      time.Time
		want     uint64
	}{
		{
			name:     "full weight at join time",
			joinTime: joined,
			now:      joined,
			want:     100,
		},
		{
			name:     "partially decayed",
			joinTime: joined,
			now:      joined.Add(10 * time.Second),
			want:     90,
		},
		{
			name:     "fully decayed",
			joinTime: joined,
			now:      joined.Add(decay),
			want:     0,
		},
		{
			name:     "beyond decay period",
			joinTime: joined,
			now:      joined.Add(decay + time.Hour),
			want:     0,
		},
		{
			name:     "zero join time",
			joinTime: time.Time{},
			now:      joined.Add(time.Second),
			want:     0,
		},
		{
			name:     "join time in the future",
			joinTime: joined.Add(time.Minute),
			now:      joined,
			want:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Weight(tt.joinTime, tt.now, decay))
		})
	}
}

func TestWeightMonotoneDecay(t *testing.T) {
	require := require.New(t)

	decay := 100 * time.Second
	joined := time.Unix(42, 0)

	prev := Weight(joined, joined, decay)
	for step := time.Second; step <= 2*decay; step += 7 * time.Second {
		w := Weight(joined, joined.Add(step), decay)
		require.LessOrEqual(w, prev)
		prev = w
	}
	require.Zero(prev)
}
