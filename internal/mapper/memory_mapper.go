package mapper

import (
	"encoding/json"

	"career-mentor-be/internal/entity"
	"career-mentor-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type MemoryMapper struct{}

func NewMemoryMapper() *MemoryMapper {
	return &MemoryMapper{}
}

func (m *MemoryMapper) ToEntity(e *model.Memory) *entity.Memory {
	if e == nil {
		return nil
	}

	embedding := []float32{}
	if e.Embedding != nil {
		embedding = e.Embedding.Slice()
	}

	var metadata map[string]interface{}
	if len(e.Metadata) > 0 {
		// Unreadable metadata is dropped rather than failing the read
		_ = json.Unmarshal(e.Metadata, &metadata)
	}

	tags := []string{}
	if len(e.Tags) > 0 {
		tags = append(tags, e.Tags...)
	}

	return &entity.Memory{
		Id:         e.Id,
		UserId:     e.UserId,
		Content:    e.Content,
		MemoryType: entity.MemoryType(e.MemoryType),
		Embedding:  embedding,
		Importance: e.Importance,
		Tags:       tags,
		Metadata:   metadata,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *MemoryMapper) ToModel(e *entity.Memory) *model.Memory {
	if e == nil {
		return nil
	}

	var vec *pgvector.Vector
	if len(e.Embedding) > 0 {
		v := pgvector.NewVector(e.Embedding)
		vec = &v
	}

	var metadata datatypes.JSON
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	return &model.Memory{
		Id:         e.Id,
		UserId:     e.UserId,
		Content:    e.Content,
		MemoryType: string(e.MemoryType),
		Embedding:  vec,
		Importance: e.Importance,
		Tags:       datatypes.JSONSlice[string](e.Tags),
		Metadata:   metadata,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *MemoryMapper) ToEntities(memories []*model.Memory) []*entity.Memory {
	entities := make([]*entity.Memory, len(memories))
	for i, e := range memories {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
