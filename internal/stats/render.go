package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/resume"
	"github.com/verte-zerg/tuiview/internal/scoring"
)

const dateLayout = "2006-01-02 15:04"

// CandidateRow returns the table cells for one session.
func CandidateRow(s model.Session) []string {
	return []string{
		s.CandidateInfo.Name,
		s.CandidateInfo.Email,
		resume.FormatPhone(s.CandidateInfo.Phone),
		string(s.Status),
		fmt.Sprintf("%d/%d", len(s.Answers), len(s.Questions)),
		FormatScore(s.Score),
		FormatDate(dateOf(s)),
	}
}

// CandidateHeaders names the CandidateRow columns.
var CandidateHeaders = []string{"Name", "Email", "Phone", "Status", "Answered", "Score", "Date"}

// RenderTable prints the candidate list, truncating lines to width when
// width is positive.
func RenderTable(w io.Writer, sessions []model.Session, width int) error {
	if _, err := fmt.Fprintf(w, "Candidates (%d)\n", len(sessions)); err != nil {
		return err
	}
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No candidates match.")
		return err
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, CandidateRow(s))
	}
	for _, line := range formatTable(CandidateHeaders, rows, map[int]bool{4: true, 5: true}) {
		if _, err := fmt.Fprintln(w, fitWidth(line, width)); err != nil {
			return err
		}
	}
	return nil
}

// RenderDetail prints one candidate's interview with every answer.
func RenderDetail(w io.Writer, s model.Session) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.CandidateInfo.Name)
	fmt.Fprintf(&b, "Email: %s\n", s.CandidateInfo.Email)
	fmt.Fprintf(&b, "Phone: %s\n", resume.FormatPhone(s.CandidateInfo.Phone))
	fmt.Fprintf(&b, "Status: %s\n", s.Status)
	if s.Score != nil {
		fmt.Fprintf(&b, "Score: %d/%d (%s)\n", *s.Score, scoring.MaxScore, scoring.Tier(*s.Score))
	}
	if s.StartedAt != nil {
		fmt.Fprintf(&b, "Started: %s\n", FormatDate(*s.StartedAt))
	}
	if s.CompletedAt != nil {
		fmt.Fprintf(&b, "Completed: %s\n", FormatDate(*s.CompletedAt))
	}
	fmt.Fprintf(&b, "Time spent: %s\n", FormatSeconds(TotalTimeSpent(s)))
	fmt.Fprintf(&b, "Timed out: %d\n", TimedOutCount(s))
	if s.Summary != nil {
		fmt.Fprintf(&b, "\n%s\n", *s.Summary)
	}

	answers := make(map[string]model.Answer, len(s.Answers))
	for _, a := range s.Answers {
		answers[a.QuestionID] = a
	}
	for i, q := range s.Questions {
		fmt.Fprintf(&b, "\nQ%d [%s, %ds] %s\n", i+1, q.Difficulty, q.TimeLimit, q.Text)
		a, ok := answers[q.ID]
		switch {
		case !ok:
			b.WriteString("  (not answered)\n")
		case a.IsTimedOut:
			fmt.Fprintf(&b, "  Timed out after %s: %s\n", FormatSeconds(a.TimeSpent), a.Text)
		default:
			fmt.Fprintf(&b, "  Answered in %s: %s\n", FormatSeconds(a.TimeSpent), a.Text)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// TotalTimeSpent sums the time spent on every answer.
func TotalTimeSpent(s model.Session) int {
	total := 0
	for _, a := range s.Answers {
		total += a.TimeSpent
	}
	return total
}

// TimedOutCount counts answers recorded on expiry.
func TimedOutCount(s model.Session) int {
	n := 0
	for _, a := range s.Answers {
		if a.IsTimedOut {
			n++
		}
	}
	return n
}

// FormatScore renders a score out of the maximum, or "-" when unscored.
func FormatScore(score *int) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d", *score, scoring.MaxScore)
}

// FormatDate renders a timestamp in local time, or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

// FormatSeconds renders a duration given in seconds, e.g. 1m05s.
func FormatSeconds(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
}
