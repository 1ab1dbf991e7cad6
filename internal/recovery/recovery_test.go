package recovery

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuiview/internal/generator"
	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/session"
	"github.com/verte-zerg/tuiview/internal/store"
)

func at(minutes int) *time.Time {
	v := time.Unix(1_700_000_000, 0).UTC().Add(time.Duration(minutes) * time.Minute)
	return &v
}

func TestResumablePicksLatestEligible(t *testing.T) {
	sessions := []model.Session{
		{ID: "done", Status: model.StatusCompleted, StartedAt: at(30)},
		{ID: "old", Status: model.StatusInProgress, StartedAt: at(1)},
		{ID: "fresh", Status: model.StatusNotStarted, StartedAt: at(10)},
		{ID: "odd", Status: model.StatusNotStarted, StartedAt: at(20), Answers: []model.Answer{{QuestionID: "q-1"}}},
	}
	got, ok := Resumable(sessions)
	require.True(t, ok)
	assert.Equal(t, "fresh", got.ID)

	_, ok = Resumable(sessions[:1])
	assert.False(t, ok)
}

type fakeSource struct {
	current  string
	sessions []model.Session
	restored []string
}

func (f *fakeSource) CurrentSessionID() string  { return f.current }
func (f *fakeSource) Sessions() []model.Session { return f.sessions }
func (f *fakeSource) RestoreSession(id string)  { f.restored = append(f.restored, id) }

func TestCheckSkipsWhenPointerSet(t *testing.T) {
	src := &fakeSource{
		current:  "a",
		sessions: []model.Session{{ID: "a", Status: model.StatusInProgress, StartedAt: at(1)}},
	}
	_, ok := Check(src)
	assert.False(t, ok)
}

func TestAcceptAndDecline(t *testing.T) {
	src := &fakeSource{sessions: []model.Session{{ID: "a", Status: model.StatusInProgress, StartedAt: at(1)}}}
	offer, ok := Check(src)
	require.True(t, ok)
	require.True(t, offer.Pending())

	Accept(src, offer)
	assert.Equal(t, []string{"a"}, src.restored)

	Decline(&offer)
	assert.False(t, offer.Pending())
	assert.Len(t, src.restored, 1)
}

func TestRestartOffersPersistedSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuiview.db")
	ctx := context.Background()
	bank, err := generator.DefaultBank()
	require.NoError(t, err)
	gen, err := generator.NewWithRand(bank, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	db, err := store.Open(path)
	require.NoError(t, err)
	st, err := session.Open(ctx, db, gen)
	require.NoError(t, err)
	id := st.CreateSession(model.CandidateInfo{Name: "Jane Doe", Email: "jane@x.com", Phone: "5551234567"})
	st.StartInterview(id)
	require.NoError(t, db.Save(ctx, model.Snapshot{Sessions: st.Sessions()}))
	require.NoError(t, db.Close())

	db, err = store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	restarted, err := session.Open(ctx, db, gen)
	require.NoError(t, err)
	require.Equal(t, "", restarted.CurrentSessionID())

	offer, ok := Check(restarted)
	require.True(t, ok)
	assert.Equal(t, id, offer.SessionID)
	assert.Equal(t, "Jane Doe", offer.CandidateName)
	assert.Equal(t, 6, offer.Total)

	Accept(restarted, offer)
	assert.Equal(t, id, restarted.CurrentSessionID())
	sess, ok := restarted.CurrentSession()
	require.True(t, ok)
	assert.Equal(t, model.StatusInProgress, sess.Status)
}
