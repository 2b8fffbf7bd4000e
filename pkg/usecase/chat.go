package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"github.com/mindmate-app/mindmate/pkg/service/prompt"
	"github.com/mindmate-app/mindmate/pkg/utils/async"
	"github.com/mindmate-app/mindmate/pkg/utils/logging"
)

// ChatInput is one turn of conversation. History is the caller-owned
// transcript of the session so far; the server keeps no transcript state.
type ChatInput struct {
	UserID  types.UserID
	Message string
	History []model.ConversationTurn
}

type ChatOutput struct {
	Reply string
}

// Chat runs one conversation turn: refresh the character report if stale,
// gather profile, unfinished tasks and relevant memories, assemble the
// instruction context, and generate the reply. Memory and analysis
// problems degrade silently; a generation failure is a hard error because
// there is no honest fallback reply.
func (u *UseCases) Chat(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	if err := input.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "chat requires a user ID")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, goerr.New("chat requires a message", goerr.V("userID", input.UserID))
	}
	if u.llmClient == nil {
		return nil, ErrNoLLMClient
	}

	logger := logging.From(ctx)

	// Piggybacked staleness check. The turn proceeds on failure: an old
	// character report beats no reply.
	if err := u.RefreshCharacter(ctx, input.UserID); err != nil {
		logger.Warn("character refresh failed, continuing with cached report",
			"userID", input.UserID.String(),
			"error", err.Error(),
		)
	}

	profile, err := u.repo.Profile().Get(ctx, input.UserID)
	if err != nil {
		logger.Warn("profile unavailable, continuing without it",
			"userID", input.UserID.String(),
			"error", err.Error(),
		)
		profile = &model.Profile{UserID: input.UserID}
	}

	now := u.userClock(profile)
	today := now.Format("2006-01-02")

	var taskTitles []string
	if goals, err := u.repo.Goal().ListPending(ctx, input.UserID, today); err != nil {
		logger.Warn("pending goals unavailable, continuing without them",
			"userID", input.UserID.String(),
			"error", err.Error(),
		)
	} else {
		for _, g := range goals {
			taskTitles = append(taskTitles, g.Title)
		}
	}

	memories := u.memory.Search(ctx, input.UserID, input.Message, u.searchTopK)

	systemPrompt, err := u.assembler.Build(prompt.BuildInput{
		UserID:          input.UserID,
		DisplayName:     profile.DisplayName,
		LatestMessage:   input.Message,
		CharacterReport: profile.CharacterReport,
		Memories:        memories,
		PendingTasks:    taskTitles,
		Today:           now,
		ExtraRules:      u.extraRules,
	})
	if err != nil {
		return nil, err
	}

	reply, err := u.generate(ctx, systemPrompt, foldTranscript(input.History, input.Message))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate chat reply",
			goerr.V("userID", input.UserID),
		)
	}

	// The user turn is written before the response returns so an immediate
	// follow-up message can already retrieve it. The reply turn goes async.
	u.memory.Save(ctx, input.UserID, input.Message, map[string]string{
		model.AttrRole: types.RoleUser.String(),
		model.AttrDate: today,
		model.AttrType: "chat",
	})
	async.Dispatch(ctx, func(ctx context.Context) error {
		u.memory.Save(ctx, input.UserID, reply, map[string]string{
			model.AttrRole: types.RoleAI.String(),
			model.AttrDate: today,
			model.AttrType: "chat",
		})
		return nil
	})

	return &ChatOutput{Reply: reply}, nil
}

// generate opens a one-shot session with the given system prompt and
// returns the model's text
func (u *UseCases) generate(ctx context.Context, systemPrompt, input string) (string, error) {
	ssn, err := u.llmClient.NewSession(ctx,
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := ssn.GenerateContent(ctx, gollem.Text(input))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content")
	}

	text := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// foldTranscript flattens the prior turns and the latest message into one
// generation input. The model sees the whole session transcript each turn.
func foldTranscript(history []model.ConversationTurn, latest string) string {
	var sb strings.Builder
	for _, turn := range history {
		if turn.Content == "" {
			continue
		}
		switch turn.Role {
		case types.RoleAI:
			sb.WriteString("You: ")
		default:
			sb.WriteString("User: ")
		}
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("User: ")
	sb.WriteString(latest)
	return sb.String()
}
