package poll

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Options tunes per-session behavior. The zero value means: kicked names
// stay barred, no ask cooldown, unbounded chat history, no export.
type Options struct {
	// AllowRejoin lets a kicked name join again as a fresh participant.
	AllowRejoin bool
	// AskCooldown is how long after results are shown the teacher must
	// wait before the next question is accepted. Guards against a rapid
	// double-submit from the teacher UI.
	AskCooldown time.Duration
	// ChatLimit caps the retained chat history (0 = unbounded).
	ChatLimit int
	// ExportFile, when set, appends each question's final results to this
	// text file as it closes.
	ExportFile string
}

// Session is the coordinator for one poll: the single serialization point
// for every command that touches its state. All mutation happens under mu,
// including timer expiry, so whichever of "last vote" and "time limit
// reached" is processed first wins the close transition and the other is a
// no-op.
type Session struct {
	Code         string
	TeacherToken string
	CreatedAt    time.Time

	mu        sync.Mutex
	state     State
	current   *Question
	tally     *Tally
	roster    *Roster
	chat      *ChatChannel
	timer     QuestionTimer
	history   []Results
	nextAskAt time.Time
	ended     bool

	opts   Options
	events Events
}

func newSession(code string, events Events, opts Options) *Session {
	if events == nil {
		events = NopEvents{}
	}
	return &Session{
		Code:         code,
		TeacherToken: uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		state:        StateAwaitingQuestion,
		roster:       NewRoster(opts.AllowRejoin),
		chat:         NewChatChannel(opts.ChatLimit),
		opts:         opts,
		events:       events,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Join adds a student to the roster and broadcasts the updated list. If a
// question is currently open its copy is returned so the newcomer can still
// answer it (late joiners may vote until the question closes).
func (s *Session) Join(name string) (*Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, ErrSessionEnded
	}
	name = strings.TrimSpace(name)
	if name == "" || name == TeacherName {
		return nil, ErrInvalidName
	}
	if err := s.roster.Join(name); err != nil {
		return nil, err
	}
	s.events.RosterChanged(s.Code, s.roster.Active())
	if s.state == StateQuestionOpen {
		q := *s.current
		q.Options = append([]string(nil), s.current.Options...)
		return &q, nil
	}
	return nil, nil
}

// Leave drops a student from the roster on disconnect. Not moderation: the
// name becomes free again. A departed non-voter can also be the last thing
// holding a question open, so the all-voted condition is re-checked.
func (s *Session) Leave(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	if !s.roster.Leave(name) {
		return
	}
	s.events.RosterChanged(s.Code, s.roster.Active())
	s.maybeCloseAllVoted()
}

// AskQuestion opens a new question. Teacher-only. Valid while awaiting a
// question, or while showing results once the cooldown has passed (which
// folds in the explicit return to AwaitingQuestion).
func (s *Session) AskQuestion(token, text string, options []string, timeLimit time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if token != s.TeacherToken {
		return ErrNotTeacher
	}
	if s.state == StateShowingResults {
		if err := s.askNewQuestionLocked(); err != nil {
			return err
		}
	}
	if s.state != StateAwaitingQuestion {
		return ErrQuestionOpen
	}
	if err := validateQuestion(text, options, timeLimit); err != nil {
		return err
	}
	q := &Question{
		ID:        uuid.NewString(),
		Text:      strings.TrimSpace(text),
		Options:   append([]string(nil), options...),
		TimeLimit: timeLimit,
		StartedAt: time.Now().UTC(),
	}
	s.current = q
	s.tally = NewTally(q.Options)
	s.state = StateQuestionOpen
	s.timer.Arm(timeLimit, func() { s.expire(q) })
	s.events.QuestionOpened(s.Code, *q)
	return nil
}

// AskNewQuestion acknowledges the current results and returns the session to
// AwaitingQuestion. Teacher-only, valid only while showing results, and
// subject to the post-results cooldown.
func (s *Session) AskNewQuestion(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if token != s.TeacherToken {
		return ErrNotTeacher
	}
	if s.state != StateShowingResults {
		return ErrQuestionNotOpen
	}
	return s.askNewQuestionLocked()
}

func (s *Session) askNewQuestionLocked() error {
	if time.Now().Before(s.nextAskAt) {
		return ErrCooldown
	}
	s.state = StateAwaitingQuestion
	return nil
}

func validateQuestion(text string, options []string, timeLimit time.Duration) error {
	if strings.TrimSpace(text) == "" || timeLimit <= 0 {
		return ErrInvalidQuestion
	}
	seen := make(map[string]bool, len(options))
	valid := 0
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return ErrInvalidQuestion
		}
		if seen[opt] {
			return ErrInvalidQuestion
		}
		seen[opt] = true
		valid++
	}
	if valid < 2 {
		return ErrInvalidQuestion
	}
	return nil
}

// SubmitVote records one student's answer to the open question. The roster
// is the source of truth for eligibility; whatever the client believes about
// its own "submitted" state is irrelevant. A vote that completes the active
// roster closes the question immediately.
func (s *Session) SubmitVote(name, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if s.state != StateQuestionOpen {
		return ErrQuestionNotOpen
	}
	if !s.roster.IsActive(name) {
		if s.roster.IsRemoved(name) {
			return ErrRemoved
		}
		return ErrParticipantNotFound
	}
	if err := s.tally.Record(name, option); err != nil {
		return err
	}
	s.maybeCloseAllVoted()
	return nil
}

// maybeCloseAllVoted closes the open question once every currently active
// participant has voted. Membership is evaluated against the live roster, so
// joins, leaves and removals mid-question all move the bar.
func (s *Session) maybeCloseAllVoted() {
	if s.state != StateQuestionOpen {
		return
	}
	n := 0
	for _, name := range s.roster.Active() {
		if !s.tally.HasVoted(name) {
			return
		}
		n++
	}
	if n == 0 {
		return
	}
	s.closeQuestionLocked()
}

// expire is the timer's entry into the serialization point. By the time the
// lock is held the question may already be closed (or replaced), in which
// case this is a no-op.
func (s *Session) expire(q *Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || s.state != StateQuestionOpen || s.current != q {
		return
	}
	s.closeQuestionLocked()
}

func (s *Session) closeQuestionLocked() {
	s.timer.Cancel()
	counts, total := s.tally.Snapshot()
	r := Results{
		Question: s.current.Text,
		Options:  append([]string(nil), s.current.Options...),
		Votes:    counts,
		Total:    total,
		EndedAt:  time.Now().UTC(),
	}
	s.history = append(s.history, r)
	s.state = StateShowingResults
	s.nextAskAt = time.Now().Add(s.opts.AskCooldown)
	s.events.ResultsPublished(s.Code, r)
	if s.opts.ExportFile != "" {
		s.exportLocked(r, len(s.history))
	}
}

// PostChat appends a chat message and broadcasts it. The teacher may always
// post; a removed student is rejected; unknown senders are treated as
// not-yet-joined and rejected as well.
func (s *Session) PostChat(from, text string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return Message{}, ErrSessionEnded
	}
	if from != TeacherName {
		if s.roster.IsRemoved(from) {
			return Message{}, ErrRemoved
		}
		if !s.roster.IsActive(from) {
			return Message{}, ErrParticipantNotFound
		}
	}
	m, err := s.chat.Post(from, text)
	if err != nil {
		return Message{}, err
	}
	s.events.MessagePosted(s.Code, m)
	return m, nil
}

// ChatHistory returns the retained chat log.
func (s *Session) ChatHistory() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.History()
}

// Students returns the active roster in join order.
func (s *Session) Students() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roster.Active()
}

// History returns the closed questions with their final tallies, newest
// first.
func (s *Session) History() []Results {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Results, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		out = append(out, s.history[i])
	}
	return out
}

// CurrentQuestion returns a copy of the open question, or nil.
func (s *Session) CurrentQuestion() *Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateQuestionOpen {
		return nil
	}
	q := *s.current
	q.Options = append([]string(nil), s.current.Options...)
	return &q
}

// end tears the session down: cancels any armed timer, rejects all future
// commands and tells everyone. Serialized through the same lock as live
// commands, so nothing completes against half-torn-down state.
func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.ended = true
	s.timer.Cancel()
	s.events.SessionEnded(s.Code)
}
