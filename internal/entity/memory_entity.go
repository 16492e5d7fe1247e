package entity

import (
	"time"

	"github.com/google/uuid"
)

type MemoryType string

const (
	MemoryTypeEpisodic MemoryType = "episodic"
	MemoryTypeSemantic MemoryType = "semantic"
	MemoryTypeFeedback MemoryType = "feedback"
)

func (t MemoryType) Valid() bool {
	switch t {
	case MemoryTypeEpisodic, MemoryTypeSemantic, MemoryTypeFeedback:
		return true
	}
	return false
}

// Memory is an immutable long-term memory record. Embedding is empty when the
// embedding service was unavailable at write time and stays empty.
type Memory struct {
	Id         uuid.UUID
	UserId     string
	Content    string
	MemoryType MemoryType
	Embedding  []float32
	Importance float64
	Tags       []string
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}

func (m *Memory) HasEmbedding() bool {
	return len(m.Embedding) > 0
}
