package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/tuiview/internal/model"
)

// DifficultyRow aggregates answers given at one difficulty.
type DifficultyRow struct {
	Difficulty   model.Difficulty
	Answered     int
	TimedOut     int
	AvgTimeSpent float64
	AvgLength    float64
}

// ByDifficulty aggregates every recorded answer by question difficulty.
// Answers referencing unknown questions are skipped.
func ByDifficulty(sessions []model.Session) []DifficultyRow {
	type acc struct {
		answered, timedOut, spent, length int
	}
	totals := map[model.Difficulty]*acc{}
	for _, d := range model.Difficulties {
		totals[d] = &acc{}
	}
	for _, s := range sessions {
		byID := make(map[string]model.Difficulty, len(s.Questions))
		for _, q := range s.Questions {
			byID[q.ID] = q.Difficulty
		}
		for _, a := range s.Answers {
			d, ok := byID[a.QuestionID]
			if !ok || totals[d] == nil {
				continue
			}
			t := totals[d]
			t.answered++
			t.spent += a.TimeSpent
			if a.IsTimedOut {
				t.timedOut++
				continue
			}
			t.length += len([]rune(a.Text))
		}
	}
	rows := make([]DifficultyRow, 0, len(model.Difficulties))
	for _, d := range model.Difficulties {
		t := totals[d]
		row := DifficultyRow{Difficulty: d, Answered: t.answered, TimedOut: t.timedOut}
		if t.answered > 0 {
			row.AvgTimeSpent = float64(t.spent) / float64(t.answered)
		}
		if manual := t.answered - t.timedOut; manual > 0 {
			row.AvgLength = float64(t.length) / float64(manual)
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderDifficultyTable prints per-difficulty aggregates.
func RenderDifficultyTable(w io.Writer, rows []DifficultyRow) error {
	if _, err := fmt.Fprintln(w, "By Difficulty"); err != nil {
		return err
	}
	headers := []string{"Difficulty", "Answered", "Timed Out", "Avg Time (s)", "Avg Length"}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			string(r.Difficulty),
			fmt.Sprintf("%d", r.Answered),
			fmt.Sprintf("%d", r.TimedOut),
			fmt.Sprintf("%.1f", r.AvgTimeSpent),
			fmt.Sprintf("%.1f", r.AvgLength),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
