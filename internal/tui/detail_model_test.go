package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/grantdesk/internal/loader"
	"github.com/rshade/grantdesk/internal/model"
)

type fakeDetailSource struct {
	loadSnap  loader.DetailSnapshot
	retrySnap loader.DetailSnapshot
	posted    []string
	postErr   error
	loads     []string
	retries   int
}

func (f *fakeDetailSource) Load(_ context.Context, id string) loader.DetailSnapshot {
	f.loads = append(f.loads, id)
	return f.loadSnap
}

func (f *fakeDetailSource) Retry(context.Context) loader.DetailSnapshot {
	f.retries++
	return f.retrySnap
}

func (f *fakeDetailSource) AddComment(_ context.Context, text string) (*model.Comment, error) {
	if f.postErr != nil {
		return nil, f.postErr
	}
	f.posted = append(f.posted, text)
	c := model.Comment{ID: "c-new", UserName: "Me", Comment: text, CreatedAt: time.Now()}
	f.loadSnap.Value.Comments = append(f.loadSnap.Value.Comments, c)
	return &c, nil
}

func (f *fakeDetailSource) Snapshot() loader.DetailSnapshot {
	return f.loadSnap
}

func populatedSnapshot(seq uint64) loader.DetailSnapshot {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return loader.DetailSnapshot{
		RequestID: "42",
		State: loader.State[loader.Detail]{
			Status: loader.StatusPopulated,
			Seq:    seq,
			Value: loader.Detail{
				Request: &model.Request{
					ID: "42", TicketNumber: "GR-0042", Title: "Lab equipment",
					RequestType: "equipment_purchase", Amount: 12500, Status: "in_review",
					RequesterName: "Dana", CreatedAt: created, UpdatedAt: created,
				},
				Workflow: &model.Workflow{Status: "officer_review", AssignedToName: "Lee"},
				Comments: []model.Comment{{ID: "c1", UserName: "Lee", Comment: "Looks fine", CreatedAt: created}},
			},
		},
	}
}

func notFoundSnapshot(seq uint64) loader.DetailSnapshot {
	return loader.DetailSnapshot{
		RequestID: "42",
		State:     loader.State[loader.Detail]{Status: loader.StatusNotFound, Err: loader.FailureMessage, Seq: seq},
	}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDetailModel_LoadsOnInit(t *testing.T) {
	src := &fakeDetailSource{loadSnap: populatedSnapshot(1)}
	m := NewDetailModel(context.Background(), src, "42")

	assert.Equal(t, ViewStateLoading, m.State())
	require.NotNil(t, m.Init())

	msg := m.loadCmd()()
	_, _ = m.Update(msg)

	assert.Equal(t, []string{"42"}, src.loads)
	assert.Equal(t, ViewStateDetail, m.State())

	view := m.View()
	assert.Contains(t, view, "GR-0042")
	assert.Contains(t, view, "$12,500.00")
	assert.Contains(t, view, "Officer Review")
	assert.Contains(t, view, "Looks fine")
	assert.Contains(t, view, "COMMENTS (1)")
}

func TestDetailModel_FailureShowsMessageAndRetry(t *testing.T) {
	src := &fakeDetailSource{loadSnap: notFoundSnapshot(1), retrySnap: populatedSnapshot(2)}
	m := NewDetailModel(context.Background(), src, "42")

	_, _ = m.Update(m.loadCmd()())
	assert.Equal(t, ViewStateError, m.State())
	assert.Contains(t, m.View(), loader.FailureMessage)
	assert.Contains(t, m.View(), "[r] Retry")

	_, cmd := m.Update(runeKey("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateLoading, m.State())

	_, _ = m.Update(m.retryCmd()())
	assert.Equal(t, 1, src.retries)
	assert.Equal(t, ViewStateDetail, m.State())
}

func TestDetailModel_NotFoundWithoutMessage(t *testing.T) {
	src := &fakeDetailSource{loadSnap: loader.DetailSnapshot{
		State: loader.State[loader.Detail]{Status: loader.StatusNotFound},
	}}
	m := NewDetailModel(context.Background(), src, "")

	_, _ = m.Update(m.loadCmd()())
	assert.Contains(t, m.View(), MsgNotFound)
}

func TestDetailModel_IgnoresStaleSnapshot(t *testing.T) {
	m := NewDetailModel(context.Background(), &fakeDetailSource{}, "42")

	_, _ = m.Update(detailLoadedMsg{snap: populatedSnapshot(5)})
	_, _ = m.Update(detailLoadedMsg{snap: notFoundSnapshot(3)})

	assert.Equal(t, ViewStateDetail, m.State())
	assert.Equal(t, uint64(5), m.Snapshot().Seq)
}

func TestDetailModel_AddComment(t *testing.T) {
	src := &fakeDetailSource{loadSnap: populatedSnapshot(1)}
	m := NewDetailModel(context.Background(), src, "42")
	_, _ = m.Update(m.loadCmd()())

	_, _ = m.Update(runeKey("c"))
	assert.True(t, m.composing)

	_, _ = m.Update(runeKey("Approved budget"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.composing)

	_, _ = m.Update(cmd())
	assert.Equal(t, []string{"Approved budget"}, src.posted)
	assert.Equal(t, "Comment added.", m.Notice())
	assert.Len(t, m.Snapshot().Value.Comments, 2)
	assert.Contains(t, m.View(), "Approved budget")
}

func TestDetailModel_AddCommentFailure(t *testing.T) {
	src := &fakeDetailSource{loadSnap: populatedSnapshot(1), postErr: errors.New("boom")}
	m := NewDetailModel(context.Background(), src, "42")
	_, _ = m.Update(m.loadCmd()())

	_, _ = m.Update(runeKey("c"))
	_, _ = m.Update(runeKey("x"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, _ = m.Update(cmd())

	assert.Contains(t, m.Notice(), "Failed to add comment")
	assert.Len(t, m.Snapshot().Value.Comments, 1)
}

func TestDetailModel_ComposeIgnoresBlankAndEscCancels(t *testing.T) {
	m := NewDetailModel(context.Background(), &fakeDetailSource{}, "42")
	_, _ = m.Update(detailLoadedMsg{snap: populatedSnapshot(1)})

	_, _ = m.Update(runeKey("c"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, m.composing)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, m.composing)
}

func TestDetailModel_CommentKeyIgnoredUnlessPopulated(t *testing.T) {
	m := NewDetailModel(context.Background(), &fakeDetailSource{}, "42")
	_, _ = m.Update(detailLoadedMsg{snap: notFoundSnapshot(1)})

	_, _ = m.Update(runeKey("c"))
	assert.False(t, m.composing)
}

func TestDetailModel_Quit(t *testing.T) {
	m := NewDetailModel(context.Background(), &fakeDetailSource{}, "42")
	_, _ = m.Update(detailLoadedMsg{snap: populatedSnapshot(1)})

	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, ViewStateQuitting, m.State())
	assert.Empty(t, m.View())
}

func TestRenderDetail_PartialAfterRetry(t *testing.T) {
	snap := populatedSnapshot(1)
	snap.Value.Workflow = nil
	snap.Value.Comments = []model.Comment{}
	snap.Value.Partial = true

	view := RenderDetail(snap.Value, 100)
	assert.Contains(t, view, "Workflow not loaded")
	assert.Contains(t, view, "No comments yet.")
}
