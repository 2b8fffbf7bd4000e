package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

type memoryIndexRepository struct {
	mu      sync.RWMutex
	entries map[types.UserID]map[model.MemoryID]*model.MemoryRecord
}

func newMemoryIndexRepository() *memoryIndexRepository {
	return &memoryIndexRepository{
		entries: make(map[types.UserID]map[model.MemoryID]*model.MemoryRecord),
	}
}

func copyRecord(m *model.MemoryRecord) *model.MemoryRecord {
	copied := &model.MemoryRecord{
		ID:        m.ID,
		UserID:    m.UserID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
	if m.Embedding != nil {
		copied.Embedding = make([]float32, len(m.Embedding))
		copy(copied.Embedding, m.Embedding)
	}
	if m.Attributes != nil {
		copied.Attributes = make(map[string]string, len(m.Attributes))
		for k, v := range m.Attributes {
			copied.Attributes[k] = v
		}
	}
	return copied
}

func (r *memoryIndexRepository) Upsert(ctx context.Context, rec *model.MemoryRecord) (*model.MemoryRecord, error) {
	if err := rec.UserID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "memory record requires a user ID")
	}
	if len(rec.Embedding) != model.EmbeddingDimension {
		return nil, goerr.Wrap(ErrInvalidDimension, "refusing to upsert memory record",
			goerr.V("got", len(rec.Embedding)),
			goerr.V("want", model.EmbeddingDimension),
		)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[rec.UserID]; !exists {
		r.entries[rec.UserID] = make(map[model.MemoryID]*model.MemoryRecord)
	}

	created := copyRecord(rec)
	if created.ID == "" {
		created.ID = model.NewMemoryID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.entries[rec.UserID][created.ID] = created
	return copyRecord(created), nil
}

func (r *memoryIndexRepository) Search(ctx context.Context, userID types.UserID, embedding []float32, limit int) ([]*model.MemoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket, exists := r.entries[userID]
	if !exists {
		return []*model.MemoryRecord{}, nil
	}

	type scored struct {
		record *model.MemoryRecord
		score  float64
	}

	var candidates []scored
	for _, m := range bucket {
		if len(m.Embedding) == 0 {
			continue
		}
		s := cosineSimilarity(embedding, m.Embedding)
		candidates = append(candidates, scored{record: copyRecord(m), score: s})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	result := make([]*model.MemoryRecord, limit)
	for i := 0; i < limit; i++ {
		result[i] = candidates[i].record
	}

	return result, nil
}

func (r *memoryIndexRepository) DeleteByUser(ctx context.Context, userID types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, userID)
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}

	return dot / denom
}
