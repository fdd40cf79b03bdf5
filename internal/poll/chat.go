package poll

import (
	"strings"
	"time"
)

// ChatChannel is the append-only message log of one session. Owned by a
// Session and only touched under its mutex. Whether a sender may post is the
// session's call (moderation lives there); the channel itself only validates
// the message.
type ChatChannel struct {
	msgs  []Message
	limit int // oldest messages are dropped beyond this; 0 means unbounded
}

func NewChatChannel(limit int) *ChatChannel {
	return &ChatChannel{limit: limit}
}

// Post appends a user message. Blank text is rejected.
func (c *ChatChannel) Post(from, text string) (Message, error) {
	if strings.TrimSpace(text) == "" {
		return Message{}, ErrEmptyMessage
	}
	m := Message{From: from, Text: text, SentAt: time.Now().UTC()}
	c.append(m)
	return m, nil
}

// System appends a moderation notice visible to everyone.
func (c *ChatChannel) System(text string) Message {
	m := Message{From: "System", Text: text, SentAt: time.Now().UTC(), System: true}
	c.append(m)
	return m
}

func (c *ChatChannel) append(m Message) {
	c.msgs = append(c.msgs, m)
	if c.limit > 0 && len(c.msgs) > c.limit {
		c.msgs = c.msgs[len(c.msgs)-c.limit:]
	}
}

// History returns a copy of the full retained log in append order.
func (c *ChatChannel) History() []Message {
	out := make([]Message, len(c.msgs))
	copy(out, c.msgs)
	return out
}
