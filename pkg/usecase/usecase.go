package usecase

import (
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/mindmate-app/mindmate/pkg/domain/interfaces"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	memorysvc "github.com/mindmate-app/mindmate/pkg/service/memory"
	"github.com/mindmate-app/mindmate/pkg/service/prompt"
)

// DefaultFirstChatWelcome greets a user who has never chatted before.
// The first greeting is fixed text rather than generated: the model has
// nothing to personalize yet and the product wants a predictable opening.
const DefaultFirstChatWelcome = "Hi! I'm so glad you're here. I'm your companion in this journal: you can tell me about your day, vent, or just think out loud. What's on your mind?"

// UseCases wires the chat, greeting, character analysis and wipe flows
// over the repositories, the memory gateway and the LLM client.
type UseCases struct {
	repo      interfaces.Repository
	llmClient gollem.LLMClient
	memory    *memorysvc.Service
	assembler *prompt.Assembler

	analysisMaxAgeDays int
	searchTopK         int
	extraRules         []string
	firstChatWelcome   string
	now                func() time.Time
}

type Option func(*UseCases)

// WithAnalysisMaxAgeDays overrides how many days a character report stays
// fresh before Chat triggers a regeneration
func WithAnalysisMaxAgeDays(days int) Option {
	return func(u *UseCases) {
		if days > 0 {
			u.analysisMaxAgeDays = days
		}
	}
}

// WithSearchTopK overrides how many memories are retrieved per chat turn
func WithSearchTopK(topK int) Option {
	return func(u *UseCases) {
		if topK > 0 {
			u.searchTopK = topK
		}
	}
}

// WithExtraRules appends operator-defined behavior rules to the assembled
// context
func WithExtraRules(rules []string) Option {
	return func(u *UseCases) {
		u.extraRules = rules
	}
}

// WithFirstChatWelcome overrides the fixed first-chat greeting text
func WithFirstChatWelcome(text string) Option {
	return func(u *UseCases) {
		if text != "" {
			u.firstChatWelcome = text
		}
	}
}

// WithNow overrides the clock, for tests
func WithNow(now func() time.Time) Option {
	return func(u *UseCases) {
		u.now = now
	}
}

// New creates the use case set. llmClient may be nil when no LLM is
// configured; chat and analysis operations then fail with ErrNoLLMClient
// while wipe keeps working.
func New(repo interfaces.Repository, llmClient gollem.LLMClient, memory *memorysvc.Service, assembler *prompt.Assembler, opts ...Option) *UseCases {
	u := &UseCases{
		repo:               repo,
		llmClient:          llmClient,
		memory:             memory,
		assembler:          assembler,
		analysisMaxAgeDays: model.DefaultAnalysisMaxAgeDays,
		searchTopK:         memorysvc.DefaultTopK,
		firstChatWelcome:   DefaultFirstChatWelcome,
		now:                time.Now,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// userClock returns the current time in the user's timezone. An absent or
// broken timezone falls back to UTC.
func (u *UseCases) userClock(profile *model.Profile) time.Time {
	now := u.now()
	if profile == nil || profile.Timezone == "" {
		return now.UTC()
	}

	loc, err := time.LoadLocation(profile.Timezone)
	if err != nil {
		return now.UTC()
	}
	return now.In(loc)
}
