package ws

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/intervue/livepoll/internal/poll"
)

// ConnCtx is what the server knows about one connection. Name and Token are
// the server-side identity; whatever the client claims in later payloads is
// treated as a hint at best.
type ConnCtx struct {
	Code  string
	Name  string
	Role  string // "teacher" | "student"
	Token string // teacher token, empty for students
}

// Server binds the poll registry to Socket.IO. It implements poll.Events, so
// every state transition a session makes is fanned out to the session's room
// in the order it happened.
type Server struct {
	Registry *poll.Registry
	io       *socketio.Server

	mu      sync.Mutex
	members map[string]map[string]socketio.Conn // sessionCode -> socketID -> Conn
}

func New() *Server {
	return &Server{members: make(map[string]map[string]socketio.Conn)}
}

// Mount attaches the Socket.IO server with all poll handlers to the given
// Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.io = io

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// teacher:createPoll
	io.OnEvent("/", "teacher:createPoll", func(s socketio.Conn) map[string]any {
		sess := srv.Registry.Create()
		s.SetContext(&ConnCtx{Code: sess.Code, Name: poll.TeacherName, Role: "teacher", Token: sess.TeacherToken})
		s.Join(sess.Code)
		srv.addMember(sess.Code, s)
		log.Info().Str("sid", s.ID()).Str("code", sess.Code).Msg("teacher:createPoll")
		return map[string]any{"ok": true, "pollId": sess.Code}
	})

	// student:join
	io.OnEvent("/", "student:join", func(s socketio.Conn, payload struct {
		PollID string `json:"pollId"`
		Name   string `json:"name"`
	}) map[string]any {
		sess, err := srv.Registry.Get(payload.PollID)
		if err != nil {
			return ackErr(err)
		}
		name := strings.TrimSpace(payload.Name)
		open, err := sess.Join(name)
		if err != nil {
			return ackErr(err)
		}
		s.SetContext(&ConnCtx{Code: sess.Code, Name: name, Role: "student"})
		s.Join(sess.Code)
		srv.addMember(sess.Code, s)
		log.Info().Str("sid", s.ID()).Str("code", sess.Code).Str("name", name).Msg("student:join")
		// Late joiner while a question is open: they may still answer it.
		if open != nil {
			s.Emit("poll:question", questionPayload(*open))
		}
		return map[string]any{"ok": true}
	})

	// teacher:ask
	io.OnEvent("/", "teacher:ask", func(s socketio.Conn, payload struct {
		PollID       string   `json:"pollId"`
		Q            string   `json:"q"`
		Options      []string `json:"options"`
		TimeLimitSec int      `json:"timeLimitSec"`
	}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.Registry.Get(payload.PollID)
		if err != nil {
			return ackErr(err)
		}
		limit := time.Duration(payload.TimeLimitSec) * time.Second
		if err := sess.AskQuestion(ctx.Token, payload.Q, payload.Options, limit); err != nil {
			return ackErr(err)
		}
		log.Info().Str("code", sess.Code).Str("q", payload.Q).Int("timeLimitSec", payload.TimeLimitSec).Msg("teacher:ask")
		return map[string]any{"ok": true}
	})

	// student:answer
	io.OnEvent("/", "student:answer", func(s socketio.Conn, payload struct {
		PollID string `json:"pollId"`
		Option string `json:"option"`
	}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.Registry.Get(payload.PollID)
		if err != nil {
			return ackErr(err)
		}
		if err := sess.SubmitVote(ctx.Name, payload.Option); err != nil {
			return ackErr(err)
		}
		log.Info().Str("code", sess.Code).Str("name", ctx.Name).Msg("student:answer")
		return map[string]any{"ok": true}
	})

	// teacher:removeStudent
	io.OnEvent("/", "teacher:removeStudent", func(s socketio.Conn, payload struct {
		PollID string `json:"pollId"`
		Name   string `json:"name"`
	}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.Registry.Get(payload.PollID)
		if err != nil {
			return ackErr(err)
		}
		if err := sess.RemoveParticipant(ctx.Token, payload.Name); err != nil {
			return ackErr(err)
		}
		log.Info().Str("code", sess.Code).Str("name", payload.Name).Msg("teacher:removeStudent")
		return map[string]any{"ok": true}
	})

	// poll:history
	io.OnEvent("/", "poll:history", func(s socketio.Conn, payload struct {
		PollID string `json:"pollId"`
	}) map[string]any {
		sess, err := srv.Registry.Get(payload.PollID)
		if err != nil {
			return ackErr(err)
		}
		return map[string]any{"ok": true, "history": historyPayload(sess.History())}
	})

	// chat:send (no ack; failures come back as a chat:error event)
	io.OnEvent("/", "chat:send", func(s socketio.Conn, payload struct {
		PollID string `json:"pollId"`
		From   string `json:"from"`
		Text   string `json:"text"`
	}) {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.Registry.Get(payload.PollID)
		if err != nil {
			s.Emit("chat:error", map[string]any{"error": err.Error()})
			return
		}
		if _, err := sess.PostChat(ctx.Name, payload.Text); err != nil {
			s.Emit("chat:error", map[string]any{"error": chatErrorText(err)})
		}
	})

	// teacher:endPoll
	io.OnEvent("/", "teacher:endPoll", func(s socketio.Conn, payload struct {
		PollID string `json:"pollId"`
	}) map[string]any {
		ctx := s.Context().(*ConnCtx)
		sess, err := srv.Registry.Get(payload.PollID)
		if err != nil {
			return ackErr(err)
		}
		if ctx.Token != sess.TeacherToken {
			return ackErr(poll.ErrNotTeacher)
		}
		if err := srv.Registry.End(sess.Code); err != nil {
			return ackErr(err)
		}
		log.Info().Str("code", sess.Code).Msg("teacher:endPoll")
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" {
			srv.removeMember(ctx.Code, s)
			switch ctx.Role {
			case "teacher":
				// The teacher owns the session; their disconnect ends it.
				_ = srv.Registry.End(ctx.Code)
			case "student":
				if sess, err := srv.Registry.Get(ctx.Code); err == nil {
					sess.Leave(ctx.Name)
				}
			}
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// poll.Events implementation. Sessions call these under their own lock, so
// the emit order matches the serialized transition order.

func (srv *Server) QuestionOpened(code string, q poll.Question) {
	srv.io.BroadcastToRoom("/", code, "poll:question", questionPayload(q))
}

func (srv *Server) ResultsPublished(code string, r poll.Results) {
	srv.io.BroadcastToRoom("/", code, "poll:results", map[string]any{
		"q":       r.Question,
		"options": r.Options,
		"votes":   r.Votes,
		"total":   r.Total,
	})
}

func (srv *Server) RosterChanged(code string, names []string) {
	students := make([]map[string]any, 0, len(names))
	for _, n := range names {
		students = append(students, map[string]any{"name": n})
	}
	srv.io.BroadcastToRoom("/", code, "poll:students", students)
}

func (srv *Server) MessagePosted(code string, m poll.Message) {
	srv.io.BroadcastToRoom("/", code, "chat:message", map[string]any{
		"from":     m.From,
		"text":     m.Text,
		"ts":       m.SentAt.UnixMilli(),
		"isSystem": m.System,
	})
}

func (srv *Server) ParticipantRemoved(code, name string) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	for _, c := range srv.members[code] {
		if ctx, ok := c.Context().(*ConnCtx); ok && ctx.Role == "student" && ctx.Name == name {
			c.Emit("poll:kicked")
		}
	}
}

func (srv *Server) SessionEnded(code string) {
	srv.io.BroadcastToRoom("/", code, "poll:ended")
	srv.mu.Lock()
	delete(srv.members, code)
	srv.mu.Unlock()
}

func (srv *Server) addMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, c.ID())
	}
}

func questionPayload(q poll.Question) map[string]any {
	return map[string]any{
		"q":           q.Text,
		"options":     q.Options,
		"startedAt":   q.StartedAt.UnixMilli(),
		"timeLimitMs": q.TimeLimit.Milliseconds(),
	}
}

func historyPayload(entries []poll.Results) []map[string]any {
	history := make([]map[string]any, 0, len(entries))
	for _, r := range entries {
		history = append(history, map[string]any{
			"q":       r.Question,
			"options": r.Options,
			"votes":   r.Votes,
			"total":   r.Total,
			"endedAt": r.EndedAt.UnixMilli(),
		})
	}
	return history
}

func ackErr(err error) map[string]any {
	return map[string]any{"ok": false, "error": err.Error()}
}

func chatErrorText(err error) string {
	if err == poll.ErrRemoved {
		return "You have been removed from the chat and cannot send messages."
	}
	return err.Error()
}
