package poll

import "errors"

var (
	ErrSessionNotFound     = errors.New("poll not found")
	ErrSessionEnded        = errors.New("poll has ended")
	ErrNotTeacher          = errors.New("only the teacher can do that")
	ErrDuplicateName       = errors.New("name already taken")
	ErrInvalidName         = errors.New("name must not be empty or reserved")
	ErrInvalidQuestion     = errors.New("question needs text and at least two distinct options")
	ErrQuestionOpen        = errors.New("a question is already open")
	ErrQuestionNotOpen     = errors.New("no question is open")
	ErrUnknownOption       = errors.New("unknown option")
	ErrAlreadyVoted        = errors.New("already voted")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrIsTeacher           = errors.New("the teacher cannot be removed")
	ErrRemoved             = errors.New("removed from the poll")
	ErrEmptyMessage        = errors.New("message is empty")
	ErrCooldown            = errors.New("wait a moment before asking a new question")
)
