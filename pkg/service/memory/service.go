package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/mindmate-app/mindmate/pkg/domain/interfaces"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"github.com/mindmate-app/mindmate/pkg/utils/logging"
)

// DefaultTopK is the number of memories retrieved per search when the
// caller does not specify one
const DefaultTopK = 5

// Service is the user-scoped gateway to long-term conversational memory.
// It hides embedding acquisition behind Save/Search/Wipe and downgrades
// embedding or index failures to soft failures: memory augments the chat
// path but must never block it, so Save and Search report problems only
// through logs.
type Service struct {
	index     interfaces.MemoryRepository
	llmClient gollem.LLMClient
}

// New creates a memory gateway over the given vector index. llmClient may
// be nil when no LLM is configured; Save and Search then degrade to no-ops
// while Wipe keeps working.
func New(index interfaces.MemoryRepository, llmClient gollem.LLMClient) (*Service, error) {
	if index == nil {
		return nil, goerr.New("memory index is required")
	}
	return &Service{
		index:     index,
		llmClient: llmClient,
	}, nil
}

// Save embeds text and upserts a fresh memory record for the user. Empty
// userID or text is a deliberate no-op: edge-case flows legitimately pass
// empty strings. Embedding or store failures drop the write silently.
func (s *Service) Save(ctx context.Context, userID types.UserID, text string, attrs map[string]string) {
	if userID == "" || text == "" {
		return
	}

	logger := logging.From(ctx)

	embedding, err := s.embed(ctx, text)
	if err != nil {
		logger.Warn("skipping memory save: embedding unavailable",
			"userID", userID.String(),
			"error", err.Error(),
		)
		return
	}

	rec := &model.MemoryRecord{
		ID:         model.NewMemoryID(),
		UserID:     userID,
		Text:       text,
		Embedding:  embedding,
		Attributes: attrs,
	}

	if _, err := s.index.Upsert(ctx, rec); err != nil {
		logger.Warn("skipping memory save: index unavailable",
			"userID", userID.String(),
			"error", err.Error(),
		)
	}
}

// Search embeds the query and returns the user's topK most similar memory
// records, best match first. Empty inputs and provider or index failures
// all degrade to an empty slice.
func (s *Service) Search(ctx context.Context, userID types.UserID, query string, topK int) []*model.MemoryRecord {
	if userID == "" || query == "" {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger := logging.From(ctx)

	embedding, err := s.embed(ctx, query)
	if err != nil {
		logger.Warn("memory search degraded to empty: embedding unavailable",
			"userID", userID.String(),
			"error", err.Error(),
		)
		return nil
	}

	records, err := s.index.Search(ctx, userID, embedding, topK)
	if err != nil {
		logger.Warn("memory search degraded to empty: index unavailable",
			"userID", userID.String(),
			"error", err.Error(),
		)
		return nil
	}

	return records
}

// Wipe deletes every memory record of the user. Unlike Save and Search
// this is a caller-visible destructive operation, so the error surfaces.
func (s *Service) Wipe(ctx context.Context, userID types.UserID) error {
	if err := userID.Validate(); err != nil {
		return goerr.Wrap(err, "wipe requires a user ID")
	}

	if err := s.index.DeleteByUser(ctx, userID); err != nil {
		return goerr.Wrap(err, "failed to wipe user memory", goerr.V("userID", userID))
	}

	return nil
}

// embed generates a float32 embedding for the given text
func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	if s.llmClient == nil {
		return nil, goerr.New("no LLM client configured")
	}

	embeddings, err := s.llmClient.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate embedding")
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, goerr.New("embedding generation returned empty result")
	}

	embedding64 := embeddings[0]
	embedding32 := make([]float32, len(embedding64))
	for i, v := range embedding64 {
		embedding32[i] = float32(v)
	}
	return embedding32, nil
}
