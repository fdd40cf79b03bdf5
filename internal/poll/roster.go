package poll

import "time"

// Roster tracks the non-teacher participants of one session in join order.
// It is owned by a Session and only touched under the session mutex.
type Roster struct {
	entries []*Participant
	byName  map[string]*Participant

	// allowRejoin permits a kicked name to join again as a fresh active
	// entry. Off by default so moderation cannot be bypassed by rejoining
	// under the same identity.
	allowRejoin bool
}

func NewRoster(allowRejoin bool) *Roster {
	return &Roster{byName: make(map[string]*Participant), allowRejoin: allowRejoin}
}

// Join adds a new active participant. Name matching is case-sensitive exact
// match. A name held by an active entry is rejected with ErrDuplicateName; a
// name held by a removed entry is rejected with ErrRemoved unless rejoin is
// allowed, in which case the entry is reinstated with a fresh join time.
func (r *Roster) Join(name string) error {
	if p, ok := r.byName[name]; ok {
		if !p.Removed {
			return ErrDuplicateName
		}
		if !r.allowRejoin {
			return ErrRemoved
		}
		p.Removed = false
		p.JoinedAt = time.Now().UTC()
		return nil
	}
	p := &Participant{Name: name, JoinedAt: time.Now().UTC()}
	r.entries = append(r.entries, p)
	r.byName[name] = p
	return nil
}

// Remove marks a participant as removed. Removing an already-removed name is
// a no-op success; the second return value reports whether the status
// actually changed.
func (r *Roster) Remove(name string) (changed bool, err error) {
	p, ok := r.byName[name]
	if !ok {
		return false, ErrParticipantNotFound
	}
	if p.Removed {
		return false, nil
	}
	p.Removed = true
	return true, nil
}

// Leave drops an entry entirely (voluntary disconnect, not moderation). The
// name becomes available again. Leaving as a removed participant keeps the
// removed entry so the moderation bar stays in place.
func (r *Roster) Leave(name string) bool {
	p, ok := r.byName[name]
	if !ok || p.Removed {
		return false
	}
	delete(r.byName, name)
	for i, e := range r.entries {
		if e == p {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	return true
}

// Active returns the active participant names in join order.
func (r *Roster) Active() []string {
	names := make([]string, 0, len(r.entries))
	for _, p := range r.entries {
		if !p.Removed {
			names = append(names, p.Name)
		}
	}
	return names
}

func (r *Roster) IsActive(name string) bool {
	p, ok := r.byName[name]
	return ok && !p.Removed
}

func (r *Roster) IsRemoved(name string) bool {
	p, ok := r.byName[name]
	return ok && p.Removed
}

func (r *Roster) ActiveCount() int {
	n := 0
	for _, p := range r.entries {
		if !p.Removed {
			n++
		}
	}
	return n
}
