package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportMatch appends the final standings of a finished match to a plain
// text results file.
func ExportMatch(g *Game, filename string) error {
	snap := g.Snapshot()
	if snap.Phase != PhaseFinalResults {
		return ErrInvalidPhase
	}
	standings := g.Standings()

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Venn Match Results - Room %s\n", snap.RoomCode))
	sb.WriteString(fmt.Sprintf("Finished: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Rounds: %d, Mode: %s\n", snap.MaxRounds, snap.ScoringMode))
	sb.WriteString(strings.Repeat("=", 50) + "\n")
	for i, p := range standings {
		tag := ""
		if p.IsAI {
			tag = " (AI)"
		}
		sb.WriteString(fmt.Sprintf("#%d  %s%s - %d points\n", i+1, p.Name, tag, p.Score))
	}
	sb.WriteString("\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
