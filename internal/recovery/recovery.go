// Package recovery finds interrupted interviews that can be resumed.
package recovery

import (
	"time"

	"github.com/verte-zerg/tuiview/internal/model"
)

// Source exposes the read-only view recovery needs.
type Source interface {
	CurrentSessionID() string
	Sessions() []model.Session
}

// Restorer moves the active session pointer.
type Restorer interface {
	RestoreSession(id string)
}

// Offer is a pending prompt to resume an interrupted interview.
type Offer struct {
	SessionID     string
	CandidateName string
	Answered      int
	Total         int
	StartedAt     time.Time
}

// Resumable returns the most recently started session that is in progress,
// or not started with no answers.
func Resumable(sessions []model.Session) (model.Session, bool) {
	var (
		best   model.Session
		bestAt time.Time
		found  bool
	)
	for _, sess := range sessions {
		if !resumable(sess) {
			continue
		}
		var at time.Time
		if sess.StartedAt != nil {
			at = *sess.StartedAt
		}
		if !found || at.After(bestAt) {
			best, bestAt, found = sess, at, true
		}
	}
	return best, found
}

// Check returns an offer when no session is active and one can be resumed.
func Check(src Source) (Offer, bool) {
	if src.CurrentSessionID() != "" {
		return Offer{}, false
	}
	sess, ok := Resumable(src.Sessions())
	if !ok {
		return Offer{}, false
	}
	offer := Offer{
		SessionID:     sess.ID,
		CandidateName: sess.CandidateInfo.Name,
		Answered:      len(sess.Answers),
		Total:         len(sess.Questions),
	}
	if sess.StartedAt != nil {
		offer.StartedAt = *sess.StartedAt
	}
	return offer, true
}

// Accept makes the offered session active.
func Accept(r Restorer, offer Offer) {
	r.RestoreSession(offer.SessionID)
}

// Decline clears a pending offer. No session is changed.
func Decline(offer *Offer) {
	if offer != nil {
		*offer = Offer{}
	}
}

// Pending reports whether the offer still references a session.
func (o Offer) Pending() bool {
	return o.SessionID != ""
}

func resumable(sess model.Session) bool {
	switch sess.Status {
	case model.StatusInProgress:
		return true
	case model.StatusNotStarted:
		return len(sess.Answers) == 0
	default:
		return false
	}
}
