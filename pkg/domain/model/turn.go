package model

import (
	"github.com/mindmate-app/mindmate/pkg/domain/types"
)

// ConversationTurn is a single turn of the chat transcript. The transcript
// itself is owned by the caller; this service only sees individual turns
// as they are generated and written to memory.
type ConversationTurn struct {
	Role    types.Role `json:"role"`
	Content string     `json:"content"`
}
