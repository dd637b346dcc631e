// ABOUTME: Chat transcript message type
// ABOUTME: Messages are recorded before and after each assistant call

package conversation

import "time"

// Role is who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Greeting opens every fresh transcript
const Greeting = "Identification confirmée. Je suis l'Expert IA Aloka Neural. Prêt pour l'analyse tactique v11.0 du flux aujourd'hui."

// FailurePrefix starts the displayable text of a failed assistant turn
const FailurePrefix = "⚠️ ERREUR NEURAL : "

// DefaultFailure is shown when the assistant error carries no message
const DefaultFailure = "Erreur de connexion au noyau Neural."

// Message is one transcript entry
type Message struct {
	ID          string    `json:"id"`
	Role        Role      `json:"role"`
	Content     string    `json:"content"`
	Translation string    `json:"translation,omitempty"`
	Failed      bool      `json:"failed,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Translatable reports whether the message may be translated: assistant
// replies that did not fail and have no translation yet
func (m Message) Translatable() bool {
	return m.Role == RoleAssistant && !m.Failed && m.Translation == ""
}
