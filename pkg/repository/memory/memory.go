package memory

import (
	"github.com/mindmate-app/mindmate/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is the in-process repository backend used for development mode
// and tests. All state lives in mutex-guarded maps.
type Memory struct {
	memoryIndex *memoryIndexRepository
	journal     *journalRepository
	goal        *goalRepository
	profile     *profileRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		memoryIndex: newMemoryIndexRepository(),
		journal:     newJournalRepository(),
		goal:        newGoalRepository(),
		profile:     newProfileRepository(),
	}
}

func (m *Memory) Memory() interfaces.MemoryRepository {
	return m.memoryIndex
}

func (m *Memory) Journal() interfaces.JournalRepository {
	return m.journal
}

func (m *Memory) Goal() interfaces.GoalRepository {
	return m.goal
}

func (m *Memory) Profile() interfaces.ProfileRepository {
	return m.profile
}

func (m *Memory) Close() error {
	return nil
}
