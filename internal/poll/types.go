package poll

import (
	"time"
)

// TeacherName is the display name reserved for the session's teacher. The
// teacher is not part of the roster and can never be removed.
const TeacherName = "Teacher"

// State is the per-session question lifecycle state.
type State string

const (
	StateAwaitingQuestion State = "AwaitingQuestion"
	StateQuestionOpen     State = "QuestionOpen"
	StateShowingResults   State = "ShowingResults"
)

// Question is a single timed multiple-choice prompt. Immutable once created;
// it is superseded only by the next question after this one closes.
type Question struct {
	ID        string
	Text      string
	Options   []string
	TimeLimit time.Duration
	StartedAt time.Time
}

// Participant is one roster entry. Removed entries stay in the roster so the
// moderation status of a name survives for the session's lifetime.
type Participant struct {
	Name     string
	JoinedAt time.Time
	Removed  bool
}

// Message is one chat line. System messages (moderation notices) carry no
// meaningful sender beyond the System flag.
type Message struct {
	From   string
	Text   string
	SentAt time.Time
	System bool
}

// Results is the final tally of a closed question, appended to the session
// history in close order.
type Results struct {
	Question string
	Options  []string
	Votes    map[string]int
	Total    int
	EndedAt  time.Time
}
