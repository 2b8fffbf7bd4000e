package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
)

func TestProfileNeedsAnalysis(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	testCases := map[string]struct {
		analyzedAt time.Time
		maxAgeDays int
		expected   bool
	}{
		"never analyzed":        {analyzedAt: time.Time{}, maxAgeDays: 7, expected: true},
		"analyzed today":        {analyzedAt: today, maxAgeDays: 7, expected: false},
		"six days old is fresh": {analyzedAt: today.AddDate(0, 0, -6), maxAgeDays: 7, expected: false},
		"seven days old is stale": {
			analyzedAt: today.AddDate(0, 0, -7), maxAgeDays: 7, expected: true,
		},
		"much older is stale": {
			analyzedAt: today.AddDate(0, -2, 0), maxAgeDays: 7, expected: true,
		},
		"zero max age falls back to default": {
			analyzedAt: today.AddDate(0, 0, -6), maxAgeDays: 0, expected: false,
		},
		"custom max age": {
			analyzedAt: today.AddDate(0, 0, -2), maxAgeDays: 1, expected: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			p := &model.Profile{UserID: "alice", AnalyzedAt: tc.analyzedAt}
			gt.Value(t, p.NeedsAnalysis(today, tc.maxAgeDays)).Equal(tc.expected)
		})
	}
}
