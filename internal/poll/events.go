package poll

// Events is the outbound side of a session: everything participants get told
// about. The transport layer implements it and fans each call out to the
// session's room. Calls are made while the session mutex is held, so the
// order of calls is the serialized order of state transitions — an
// implementation must not call back into the session.
type Events interface {
	// QuestionOpened goes to all participants when a question starts.
	QuestionOpened(code string, q Question)
	// ResultsPublished goes to all participants when a question closes,
	// whether by timer expiry or by every active participant having voted.
	ResultsPublished(code string, r Results)
	// RosterChanged carries the active participant names in join order.
	RosterChanged(code string, names []string)
	// MessagePosted carries one chat message, user or system.
	MessagePosted(code string, m Message)
	// ParticipantRemoved is addressed to the removed participant alone;
	// everyone else only sees the roster update and the system chat line.
	ParticipantRemoved(code, name string)
	// SessionEnded tells participants the session is gone.
	SessionEnded(code string)
}

// NopEvents discards everything. Useful as a default and in tests.
type NopEvents struct{}

func (NopEvents) QuestionOpened(string, Question)  {}
func (NopEvents) ResultsPublished(string, Results) {}
func (NopEvents) RosterChanged(string, []string)   {}
func (NopEvents) MessagePosted(string, Message)    {}
func (NopEvents) ParticipantRemoved(string, string) {}
func (NopEvents) SessionEnded(string)              {}
