package model

import (
	"time"

	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// DefaultAnalysisMaxAgeDays is how long a character report stays fresh
const DefaultAnalysisMaxAgeDays = 7

// Profile holds per-user state owned by the structured store. The
// character report is derived data: overwritten on each regeneration,
// never versioned.
type Profile struct {
	UserID        types.UserID
	DisplayName   string
	Timezone      string
	FirstChatDone bool

	// CharacterReport is the cached personality summary and AnalyzedAt the
	// day it was generated. AnalyzedAt is zero when no report exists yet.
	CharacterReport string
	AnalyzedAt      time.Time
}

// NeedsAnalysis reports whether the character report is stale: absent, or
// generated maxAgeDays or more before today. A report exactly at the
// boundary counts as stale.
func (p *Profile) NeedsAnalysis(today time.Time, maxAgeDays int) bool {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultAnalysisMaxAgeDays
	}
	if p.AnalyzedAt.IsZero() {
		return true
	}
	cutoff := today.AddDate(0, 0, -maxAgeDays)
	return !p.AnalyzedAt.After(cutoff)
}
