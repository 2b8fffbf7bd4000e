package memory_test

import (
	"context"
	"os"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gt"
	"github.com/mindmate-app/mindmate/pkg/domain/model"
	repomem "github.com/mindmate-app/mindmate/pkg/repository/memory"
	memorysvc "github.com/mindmate-app/mindmate/pkg/service/memory"
)

// mockLLMClient is a mock gollem LLMClient for testing
type mockLLMClient struct {
	newSessionFn        func(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error)
	generateEmbeddingFn func(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

func (c *mockLLMClient) NewSession(ctx context.Context, options ...gollem.SessionOption) (gollem.Session, error) {
	if c.newSessionFn != nil {
		return c.newSessionFn(ctx, options...)
	}
	return nil, goerr.New("no session configured")
}

func (c *mockLLMClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if c.generateEmbeddingFn != nil {
		return c.generateEmbeddingFn(ctx, dimension, input)
	}
	return nil, goerr.New("no embedding configured")
}

// scriptedEmbedder returns fixed vectors per input text so similarity
// ordering in tests is predictable
func scriptedEmbedder(vectors map[string][]float64) func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	return func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
		out := make([][]float64, len(input))
		for i, text := range input {
			vec := make([]float64, dimension)
			copy(vec, vectors[text])
			out[i] = vec
		}
		return out, nil
	}
}

func TestMemoryService_SaveAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := repomem.New()

	llm := &mockLLMClient{
		generateEmbeddingFn: scriptedEmbedder(map[string][]float64{
			"I started jogging":       {1, 0, 0},
			"my cat knocked over tea": {0, 1, 0},
			"how is my exercise":      {1, 0.2, 0},
		}),
	}

	svc, err := memorysvc.New(repo.Memory(), llm)
	gt.NoError(t, err).Required()

	svc.Save(ctx, "alice", "I started jogging", map[string]string{
		model.AttrDate: "2026-08-30",
		model.AttrType: "journal",
	})
	svc.Save(ctx, "alice", "my cat knocked over tea", nil)

	records := svc.Search(ctx, "alice", "how is my exercise", 1)
	gt.Array(t, records).Length(1).Required()
	gt.Value(t, records[0].Text).Equal("I started jogging")
	gt.Value(t, records[0].Attr(model.AttrDate)).Equal("2026-08-30")
	gt.Value(t, records[0].Attr(model.AttrType)).Equal("journal")
}

func TestMemoryService_SoftFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("save with failing embedder stores nothing", func(t *testing.T) {
		repo := repomem.New()
		failing := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return nil, goerr.New("embedding provider down")
			},
		}
		svc, err := memorysvc.New(repo.Memory(), failing)
		gt.NoError(t, err).Required()

		svc.Save(ctx, "alice", "this should be dropped", nil)

		stored, err := repo.Memory().Search(ctx, "alice", make([]float32, model.EmbeddingDimension), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(0)
	})

	t.Run("save with empty embedding result stores nothing", func(t *testing.T) {
		repo := repomem.New()
		empty := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return [][]float64{}, nil
			},
		}
		svc, err := memorysvc.New(repo.Memory(), empty)
		gt.NoError(t, err).Required()

		svc.Save(ctx, "alice", "still dropped", nil)

		stored, err := repo.Memory().Search(ctx, "alice", make([]float32, model.EmbeddingDimension), 10)
		gt.NoError(t, err).Required()
		gt.Array(t, stored).Length(0)
	})

	t.Run("search with failing embedder returns empty", func(t *testing.T) {
		repo := repomem.New()
		failing := &mockLLMClient{
			generateEmbeddingFn: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
				return nil, goerr.New("embedding provider down")
			},
		}
		svc, err := memorysvc.New(repo.Memory(), failing)
		gt.NoError(t, err).Required()

		gt.Array(t, svc.Search(ctx, "alice", "anything", 5)).Length(0)
	})

	t.Run("empty inputs are no-ops", func(t *testing.T) {
		repo := repomem.New()
		svc, err := memorysvc.New(repo.Memory(), &mockLLMClient{})
		gt.NoError(t, err).Required()

		svc.Save(ctx, "", "text without user", nil)
		svc.Save(ctx, "alice", "", nil)
		gt.Array(t, svc.Search(ctx, "", "query", 5)).Length(0)
		gt.Array(t, svc.Search(ctx, "alice", "", 5)).Length(0)
	})

	t.Run("nil LLM client degrades save and search but not wipe", func(t *testing.T) {
		repo := repomem.New()
		svc, err := memorysvc.New(repo.Memory(), nil)
		gt.NoError(t, err).Required()

		svc.Save(ctx, "alice", "no embedder available", nil)
		gt.Array(t, svc.Search(ctx, "alice", "anything", 5)).Length(0)
		gt.NoError(t, svc.Wipe(ctx, "alice"))
	})
}

func TestMemoryService_TopKDefault(t *testing.T) {
	ctx := context.Background()
	repo := repomem.New()

	vectors := map[string][]float64{"query": {1}}
	texts := []string{"one", "two", "three", "four", "five", "six", "seven"}
	for i, text := range texts {
		vectors[text] = []float64{1, float64(i) * 0.01}
	}

	svc, err := memorysvc.New(repo.Memory(), &mockLLMClient{
		generateEmbeddingFn: scriptedEmbedder(vectors),
	})
	gt.NoError(t, err).Required()

	for _, text := range texts {
		svc.Save(ctx, "alice", text, nil)
	}

	gt.Array(t, svc.Search(ctx, "alice", "query", 0)).Length(5)
	gt.Array(t, svc.Search(ctx, "alice", "query", -3)).Length(5)
	gt.Array(t, svc.Search(ctx, "alice", "query", 2)).Length(2)
}

func TestMemoryService_Wipe(t *testing.T) {
	ctx := context.Background()
	repo := repomem.New()

	svc, err := memorysvc.New(repo.Memory(), &mockLLMClient{
		generateEmbeddingFn: scriptedEmbedder(map[string][]float64{
			"a memory": {1},
			"query":    {1},
		}),
	})
	gt.NoError(t, err).Required()

	svc.Save(ctx, "alice", "a memory", nil)
	gt.Array(t, svc.Search(ctx, "alice", "query", 5)).Length(1)

	gt.NoError(t, svc.Wipe(ctx, "alice"))
	gt.Array(t, svc.Search(ctx, "alice", "query", 5)).Length(0)

	// Wiping again is fine
	gt.NoError(t, svc.Wipe(ctx, "alice"))

	gt.Error(t, svc.Wipe(ctx, ""))
}

func TestMemoryService_Gemini(t *testing.T) {
	projectID := os.Getenv("TEST_GEMINI_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_GEMINI_PROJECT_ID not set")
	}
	location := os.Getenv("TEST_GEMINI_LOCATION")
	if location == "" {
		location = "us-central1"
	}

	ctx := context.Background()
	client, err := gemini.New(ctx, projectID, location)
	gt.NoError(t, err).Required()

	repo := repomem.New()
	svc, err := memorysvc.New(repo.Memory(), client)
	gt.NoError(t, err).Required()

	svc.Save(ctx, "gemini-test-user", "I adopted a small orange cat last week", nil)

	records := svc.Search(ctx, "gemini-test-user", "tell me about my pet", 3)
	gt.Array(t, records).Length(1).Required()
	gt.Value(t, records[0].Text).Equal("I adopted a small orange cat last week")
}
