package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

const Greeting = "Hi! Ask me about your profile summary, skill gaps, weekly plan, projects, or resources."

// QuickPrompts are suggested questions, each resolving to a different intent.
var QuickPrompts = []string{
	"Give me my profile summary",
	"What are my top skill gaps?",
	"What should I do this week?",
	"Show recommended projects",
	"Show recommended resources",
}

type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session is an append-only transcript. It never influences answers: replies
// are rendered from the latest analysis only.
type Session struct {
	ID     uuid.UUID
	UserID string

	mu       sync.Mutex
	messages []Message
}

func NewSession(userID string) *Session {
	s := &Session{ID: uuid.New(), UserID: userID}
	s.Append(RoleSystem, Greeting)
	return s
}

func (s *Session) Append(role Role, text string) Message {
	msg := Message{Role: role, Text: text, At: time.Now().UTC()}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()

	return msg
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
