package poll

import "math"

// Tally counts votes for one question. Every option is present from the
// start with a zero count; voters are recorded by name so a participant can
// vote at most once. Owned by a Session and only touched under its mutex.
type Tally struct {
	options []string
	counts  map[string]int
	voters  map[string]string // participant name -> chosen option
}

func NewTally(options []string) *Tally {
	counts := make(map[string]int, len(options))
	for _, opt := range options {
		counts[opt] = 0
	}
	return &Tally{
		options: options,
		counts:  counts,
		voters:  make(map[string]string),
	}
}

// Record stores one vote. The option must be one of the question's labels
// and the participant must not have voted before.
func (t *Tally) Record(name, option string) error {
	if _, ok := t.counts[option]; !ok {
		return ErrUnknownOption
	}
	if _, ok := t.voters[name]; ok {
		return ErrAlreadyVoted
	}
	t.voters[name] = option
	t.counts[option]++
	return nil
}

// HasVoted reports whether the named participant has a recorded vote.
func (t *Tally) HasVoted(name string) bool {
	_, ok := t.voters[name]
	return ok
}

// Snapshot returns a point-in-time copy of the per-option counts and the
// total number of distinct voters.
func (t *Tally) Snapshot() (counts map[string]int, total int) {
	counts = make(map[string]int, len(t.counts))
	for opt, n := range t.counts {
		counts[opt] = n
	}
	return counts, len(t.voters)
}

// Percentages converts counts into whole-number percentages for display.
// With a zero total every option is 0% (no division by zero).
func Percentages(counts map[string]int, total int) map[string]int {
	out := make(map[string]int, len(counts))
	for opt, n := range counts {
		if total == 0 {
			out[opt] = 0
			continue
		}
		out[opt] = int(math.Round(float64(n) / float64(total) * 100))
	}
	return out
}
