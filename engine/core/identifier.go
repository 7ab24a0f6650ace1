package core

import "github.com/google/uuid"

// GenerationID tags one rebuild of a chunk's mesh buffers so downstream
// consumers can tell whether the buffers they hold are current.
type GenerationID string

func NewGenerationID() GenerationID {
	return GenerationID(uuid.New().String())
}
