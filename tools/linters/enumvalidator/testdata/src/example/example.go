package example

type SessionState string

const (
	SessionActive SessionState = "active"
	SessionPaused SessionState = "paused"
)

type ConversationMode string

const (
	ModeLearning ConversationMode = "learning"
)

type DifficultyLevel string

const (
	DifficultyBasic DifficultyLevel = "basic"
)

type ConversationSession struct {
	State SessionState
}

type SearchQuery struct {
	DifficultyLevel DifficultyLevel
}

func bad() {
	s := &ConversationSession{}
	s.State = "archived" // want "enum field State assigned string literal"

	q := &SearchQuery{}
	q.DifficultyLevel = "expert" // want "enum field DifficultyLevel assigned string literal"
}

func good() {
	s := &ConversationSession{}
	s.State = SessionPaused // OK: using constant

	q := &SearchQuery{}
	q.DifficultyLevel = DifficultyBasic // OK: using constant
}

func alsoGood() {
	// OK: Variable, not literal
	mode := ModeLearning
	_ = mode
}
