package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Memory() MemoryRepository
	Journal() JournalRepository
	Goal() GoalRepository
	Profile() ProfileRepository

	// Close releases underlying store connections
	Close() error
}
