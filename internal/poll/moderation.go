package poll

import "fmt"

// RemoveParticipant kicks a student out of the session. Teacher-only, valid
// in any state. Historical votes stand, but the name can cast no further
// votes and post no further chat messages. On a fresh removal three things
// go out, in order: the updated roster, a system chat line, and a removal
// notice addressed to the kicked student alone. Removing an already-removed
// name is a no-op success.
func (s *Session) RemoveParticipant(token, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return ErrSessionEnded
	}
	if token != s.TeacherToken {
		return ErrNotTeacher
	}
	if name == TeacherName {
		return ErrIsTeacher
	}
	changed, err := s.roster.Remove(name)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	s.events.RosterChanged(s.Code, s.roster.Active())
	m := s.chat.System(fmt.Sprintf("%s has been removed from the chat", name))
	s.events.MessagePosted(s.Code, m)
	s.events.ParticipantRemoved(s.Code, name)
	// The kicked student may have been the last one holding the open
	// question short of all-voted.
	s.maybeCloseAllVoted()
	return nil
}
