package poll

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// exportLocked appends one closed question's results to the configured text
// file. Called under the session mutex right after the close transition, so
// the exported snapshot matches what was broadcast. Export failures are
// logged and otherwise ignored; they must not affect the session.
func (s *Session) exportLocked(r Results, index int) {
	if err := writeExport(s.Code, r, index, s.opts.ExportFile); err != nil {
		log.Error().Err(err).Str("code", s.Code).Str("file", s.opts.ExportFile).Msg("failed to export results")
	}
}

func writeExport(code string, r Results, index int, filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if index == 1 {
		sb.WriteString(fmt.Sprintf("Live Poll Results - Session %s\n", code))
		sb.WriteString(fmt.Sprintf("Started: %s\n", r.EndedAt.Format("2006-01-02 15:04:05")))
		sb.WriteString(strings.Repeat("=", 50) + "\n\n")
	}
	sb.WriteString(fmt.Sprintf("Question %d: %q\n", index, r.Question))
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	pct := Percentages(r.Votes, r.Total)
	for _, opt := range r.Options {
		sb.WriteString(fmt.Sprintf("- %s: %d vote(s), %d%%\n", opt, r.Votes[opt], pct[opt]))
	}
	sb.WriteString(fmt.Sprintf("Total responses: %d\n", r.Total))
	sb.WriteString(fmt.Sprintf("Closed at %s\n\n", r.EndedAt.Format("2006-01-02 15:04:05")))

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
