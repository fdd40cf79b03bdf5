package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"

	"github.com/intervue/livepoll/internal/config"
	"github.com/intervue/livepoll/internal/poll"
	"github.com/intervue/livepoll/internal/ws"
)

const version = "v1.0.0"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`LivePoll - Real-time classroom polling

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                 Port to listen on (default: 8080)
  ALLOW_REJOIN         Let a kicked student rejoin under the same name (default: false)
  ASK_COOLDOWN         Pause between results and the next question (default: 2s)
  CHAT_HISTORY_LIMIT   Retained chat messages per session, 0 = unbounded (default: 500)
  EXPORT_ENABLED       Append poll results to a text file (default: false)
  EXPORT_FILE          Path for exported results (default: ./livepoll-results.txt)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("LivePoll %s\n", version)
		return
	}

	// .env is optional
	_ = godotenv.Load()

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)

	cfg, err := config.FromEnv()
	if err != nil {
		zerologlog.Fatal().Err(err).Msg("invalid configuration")
	}
	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Socket server + poll registry
	sock := ws.New()
	exportFile := ""
	if cfg.ExportEnabled {
		exportFile = cfg.ExportFile
	}
	reg := poll.NewRegistry(sock, poll.Options{
		AllowRejoin: cfg.AllowRejoin,
		AskCooldown: cfg.AskCooldown,
		ChatLimit:   cfg.ChatHistoryLimit,
		ExportFile:  exportFile,
	})
	sock.Registry = reg
	io := sock.Mount(r)
	defer io.Close()

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "sessions": reg.Count(), "time": time.Now().UTC()})
	})

	// Poll history for the teacher's history view
	r.GET("/api/poll/:code/history", func(c *gin.Context) {
		sess, err := reg.Get(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
			return
		}
		history := make([]gin.H, 0)
		for _, res := range sess.History() {
			history = append(history, gin.H{
				"q":       res.Question,
				"options": res.Options,
				"votes":   res.Votes,
				"total":   res.Total,
				"endedAt": res.EndedAt.UnixMilli(),
			})
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "history": history})
	})

	server := &http.Server{Addr: ":" + port, Handler: r}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	zerologlog.Info().Str("port", port).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zerologlog.Fatal().Err(err).Msg("server closed")
	}
}
