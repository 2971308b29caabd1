// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package timelock

import (
	"github.com/luxfi/metric"
)

const choiceLabel = "choice"

type engineMetrics struct {
	numProposed metric.Counter
	numVotes    metric.CounterVec
	numUnlocked metric.Counter
}

// Metrics are self-registering when created with NewCounter etc.
func newEngineMetrics() *engineMetrics {
	return &engineMetrics{
		numProposed: metric.NewCounter(metric.CounterOpts{
			Name: "locks_proposed",
			Help: "Number of locks proposed",
		}),
		numVotes: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "votes_cast",
				Help: "Number of votes admitted to a tally",
			},
			[]string{choiceLabel},
		),
		numUnlocked: metric.NewCounter(metric.CounterOpts{
			Name: "locks_unlocked",
			Help: "Number of locks that reached consensus and unlocked",
		}),
	}
}

func (m *engineMetrics) markVote(choice bool) {
	label := "negative"
	if choice {
		label = "positive"
	}
	m.numVotes.With(metric.Labels{choiceLabel: label}).Inc()
}
