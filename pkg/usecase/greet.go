package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"github.com/mindmate-app/mindmate/pkg/service/prompt"
	"github.com/mindmate-app/mindmate/pkg/utils/logging"
)

//go:embed prompt/greeting.md
var greetingPromptTmpl string

var greetingPrompt = template.Must(template.New("greeting").Parse(greetingPromptTmpl))

type GreetOutput struct {
	Reply string

	// FirstChat is true when this greeting was the fixed first-chat welcome
	FirstChat bool
}

// Greet opens a conversation before the user has typed anything. The very
// first chat gets a fixed welcome and flips FirstChatDone; every later
// empty transcript asks the model for a short time-of-day opener seeded
// with the user's context.
func (u *UseCases) Greet(ctx context.Context, userID types.UserID) (*GreetOutput, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "greeting requires a user ID")
	}

	profile, err := u.repo.Profile().Get(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get profile for greeting",
			goerr.V("userID", userID),
		)
	}

	if !profile.FirstChatDone {
		profile.UserID = userID
		profile.FirstChatDone = true
		if err := u.repo.Profile().Put(ctx, profile); err != nil {
			// Worst case the user is welcomed twice
			logging.From(ctx).Warn("failed to mark first chat done",
				"userID", userID.String(),
				"error", err.Error(),
			)
		}
		return &GreetOutput{Reply: u.firstChatWelcome, FirstChat: true}, nil
	}

	if u.llmClient == nil {
		return nil, ErrNoLLMClient
	}

	now := u.userClock(profile)

	var taskTitles []string
	if goals, err := u.repo.Goal().ListPending(ctx, userID, now.Format("2006-01-02")); err != nil {
		logging.From(ctx).Warn("pending goals unavailable for greeting",
			"userID", userID.String(),
			"error", err.Error(),
		)
	} else {
		for _, g := range goals {
			taskTitles = append(taskTitles, g.Title)
		}
	}

	systemPrompt, err := u.assembler.Build(prompt.BuildInput{
		UserID:          userID,
		DisplayName:     profile.DisplayName,
		CharacterReport: profile.CharacterReport,
		PendingTasks:    taskTitles,
		Today:           now,
		ExtraRules:      u.extraRules,
	})
	if err != nil {
		return nil, err
	}

	var instruction bytes.Buffer
	if err := greetingPrompt.Execute(&instruction, map[string]string{
		"PartOfDay": partOfDay(now),
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to render greeting prompt")
	}

	reply, err := u.generate(ctx, systemPrompt, instruction.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate greeting",
			goerr.V("userID", userID),
		)
	}

	return &GreetOutput{Reply: reply}, nil
}

func partOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 18:
		return "afternoon"
	case h >= 18 && h < 23:
		return "evening"
	default:
		return "night"
	}
}
