package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/tickr/internal/store"
)

// ToCSV writes the completion history to path.
func ToCSV(completions []store.Completion, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Timer", "Label", "Kind", "Phase", "Completed", "Duration (ms)", "Duration"}); err != nil {
		return err
	}

	for _, c := range completions {
		row := []string{
			fmt.Sprintf("%d", c.ID),
			c.TimerID,
			c.Label,
			c.Kind,
			c.Phase,
			c.CompletedAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", c.DurationMs),
			formatDuration(c.DurationMs),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(ms int64) string {
	secs := ms / 1000
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
