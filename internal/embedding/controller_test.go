package embedding

import (
	"aglc_chat/internal/model"
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeed struct {
	mu   sync.Mutex
	seq  int
	msgs []model.FeedMessage
}

func (f *fakeFeed) Post(msg model.FeedMessage) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	msg.ID = strconv.Itoa(f.seq)
	f.msgs = append(f.msgs, msg)
	return msg.ID
}

func (f *fakeFeed) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.msgs {
		if m.ID == id {
			f.msgs = append(f.msgs[:i], f.msgs[i+1:]...)
			return
		}
	}
}

func (f *fakeFeed) kinds() []model.FeedKind {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.FeedKind
	for _, m := range f.msgs {
		out = append(out, m.Kind)
	}
	return out
}

type fakeToggler struct {
	calls  []model.EmbeddingMode
	resp   *model.ToggleResponse
	err    error
	during func()
}

func (f *fakeToggler) ToggleEmbeddings(ctx context.Context, mode model.EmbeddingMode) (*model.ToggleResponse, error) {
	f.calls = append(f.calls, mode)
	if f.during != nil {
		f.during()
	}
	return f.resp, f.err
}

func TestToggle_SameModeMakesNoRequest(t *testing.T) {
	feed := &fakeFeed{}
	toggler := &fakeToggler{}
	c := NewController(model.EmbeddingOpenAI, toggler, feed)

	tr, err := c.Toggle(context.Background(), Desktop, true)

	require.NoError(t, err)
	assert.Nil(t, tr)
	assert.Empty(t, toggler.calls)
	assert.Empty(t, feed.msgs)
}

func TestToggle_Commit(t *testing.T) {
	feed := &fakeFeed{}
	c := NewController(model.EmbeddingOpenAI, nil, feed)

	var during State
	var feedDuring []model.FeedKind
	toggler := &fakeToggler{
		resp: &model.ToggleResponse{Success: true, EmbeddingType: model.EmbeddingTFIDF, Message: "Switched to tfidf embeddings"},
	}
	toggler.during = func() {
		during = c.State()
		feedDuring = feed.kinds()
	}
	c.toggler = toggler

	tr, err := c.Toggle(context.Background(), Mobile, false)
	require.NoError(t, err)

	// optimistic update and status message precede the request
	assert.Equal(t, model.EmbeddingOpenAI, during.Confirmed)
	assert.Equal(t, ControlState{Checked: false, Active: model.EmbeddingTFIDF}, during.Desktop)
	assert.Equal(t, during.Desktop, during.Mobile)
	assert.Equal(t, 1, during.Pending)
	assert.Equal(t, []model.FeedKind{model.FeedStatus}, feedDuring)

	assert.Equal(t, []model.EmbeddingMode{model.EmbeddingTFIDF}, toggler.calls)
	assert.Equal(t, PhaseCommitted, tr.Phase)
	assert.Equal(t, model.EmbeddingTFIDF, tr.Result)
	assert.Equal(t, model.EmbeddingOpenAI, tr.Previous)
	assert.Equal(t, model.EmbeddingTFIDF, c.Mode())

	require.Len(t, feed.msgs, 1)
	assert.Equal(t, model.FeedBot, feed.msgs[0].Kind)
	assert.Equal(t, "Switched to tfidf embeddings", feed.msgs[0].Text)
	assert.Equal(t, model.EmbeddingTFIDF, feed.msgs[0].Badge)

	st := c.State()
	assert.Equal(t, st.Desktop, st.Mobile)
	assert.Zero(t, st.Pending)
}

func TestToggle_FailuresRollBack(t *testing.T) {
	tests := []struct {
		name    string
		toggler *fakeToggler
		reason  string
	}{
		{"transport error", &fakeToggler{err: errors.New("connection refused")}, "Error: connection refused"},
		{"business failure", &fakeToggler{resp: &model.ToggleResponse{Success: false, EmbeddingType: model.EmbeddingTFIDF, Message: "index is not available"}}, "Error: index is not available"},
		{"empty rejection", &fakeToggler{resp: &model.ToggleResponse{}}, "Error: embedding switch was not confirmed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := &fakeFeed{}
			c := NewController(model.EmbeddingOpenAI, tt.toggler, feed)

			tr, err := c.Toggle(context.Background(), Desktop, false)
			require.NoError(t, err)

			assert.Equal(t, PhaseRolledBack, tr.Phase)
			assert.Error(t, tr.Err)
			assert.Equal(t, model.EmbeddingOpenAI, c.Mode())

			st := c.State()
			want := ControlState{Checked: true, Active: model.EmbeddingOpenAI}
			assert.Equal(t, want, st.Desktop)
			assert.Equal(t, want, st.Mobile)

			require.Len(t, feed.msgs, 1)
			assert.Equal(t, model.FeedError, feed.msgs[0].Kind)
			assert.Equal(t, tt.reason, feed.msgs[0].Text)
		})
	}
}

func TestToggle_InvalidControl(t *testing.T) {
	c := NewController(model.EmbeddingOpenAI, &fakeToggler{}, &fakeFeed{})

	_, err := c.Toggle(context.Background(), Control("tablet"), false)

	assert.ErrorIs(t, err, ErrInvalidControl)
}

func TestToggle_CommitUsesRequestedModeWhenResponseOmitsIt(t *testing.T) {
	toggler := &fakeToggler{resp: &model.ToggleResponse{Success: true, Message: "ok"}}
	c := NewController(model.EmbeddingOpenAI, toggler, &fakeFeed{})

	tr, err := c.Toggle(context.Background(), Desktop, false)

	require.NoError(t, err)
	assert.Equal(t, model.EmbeddingTFIDF, tr.Result)
	assert.Equal(t, model.EmbeddingTFIDF, c.Mode())
}

func TestNewController_DefaultsInvalidMode(t *testing.T) {
	c := NewController("bm25", nil, &fakeFeed{})
	assert.Equal(t, model.EmbeddingOpenAI, c.Mode())
	assert.True(t, c.State().Mobile.Checked)
}

func TestToggle_CommitFollowsConfirmedMode(t *testing.T) {
	// 后端确认的模式与请求不同时，以确认结果为准
	toggler := &fakeToggler{resp: &model.ToggleResponse{Success: true, EmbeddingType: model.EmbeddingOpenAI, Message: "kept openai"}}
	c := NewController(model.EmbeddingOpenAI, toggler, &fakeFeed{})

	tr, err := c.Toggle(context.Background(), Mobile, false)

	require.NoError(t, err)
	assert.Equal(t, PhaseCommitted, tr.Phase)
	st := c.State()
	assert.Equal(t, ControlState{Checked: true, Active: model.EmbeddingOpenAI}, st.Desktop)
	assert.Equal(t, st.Desktop, st.Mobile)
}

type toggleResult struct {
	resp *model.ToggleResponse
	err  error
}

// gatedToggler 按到达顺序为每次请求分配一个闸门，测试决定各请求的完成顺序
type gatedToggler struct {
	entered chan model.EmbeddingMode

	mu    sync.Mutex
	gates []chan toggleResult
	n     int
}

func newGatedToggler(n int) *gatedToggler {
	g := &gatedToggler{entered: make(chan model.EmbeddingMode, n)}
	for i := 0; i < n; i++ {
		g.gates = append(g.gates, make(chan toggleResult, 1))
	}
	return g
}

func (g *gatedToggler) ToggleEmbeddings(ctx context.Context, mode model.EmbeddingMode) (*model.ToggleResponse, error) {
	g.mu.Lock()
	gate := g.gates[g.n]
	g.n++
	g.mu.Unlock()

	g.entered <- mode
	r := <-gate
	return r.resp, r.err
}

// startToggle 在后台发起切换，等请求到达后端后返回
func startToggle(t *testing.T, c *Controller, g *gatedToggler, source Control, checked bool) <-chan *Transition {
	t.Helper()
	out := make(chan *Transition, 1)
	go func() {
		tr, err := c.Toggle(context.Background(), source, checked)
		assert.NoError(t, err)
		out <- tr
	}()
	<-g.entered
	return out
}

func committed(mode model.EmbeddingMode) toggleResult {
	return toggleResult{resp: &model.ToggleResponse{Success: true, EmbeddingType: mode, Message: "switched to " + string(mode)}}
}

func TestToggle_OverlappingCommitsKeepNewerControls(t *testing.T) {
	g := newGatedToggler(3)
	feed := &fakeFeed{}
	c := NewController(model.EmbeddingOpenAI, g, feed)

	first := startToggle(t, c, g, Desktop, false)
	second := startToggle(t, c, g, Mobile, false)
	assert.Equal(t, 2, c.State().Pending)

	g.gates[0] <- committed(model.EmbeddingTFIDF)
	tr := <-first
	assert.Equal(t, PhaseCommitted, tr.Phase)
	assert.Equal(t, model.EmbeddingTFIDF, c.Mode())

	// 已确认 TF-IDF 后用户切回 OpenAI，此时第二个请求仍未完成
	third := startToggle(t, c, g, Desktop, true)

	g.gates[1] <- committed(model.EmbeddingTFIDF)
	tr = <-second
	assert.Equal(t, PhaseCommitted, tr.Phase)
	st := c.State()
	assert.Equal(t, model.EmbeddingTFIDF, st.Confirmed)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, ControlState{Checked: true, Active: model.EmbeddingOpenAI}, st.Desktop)
	assert.Equal(t, st.Desktop, st.Mobile)

	g.gates[2] <- committed(model.EmbeddingOpenAI)
	tr = <-third
	assert.Equal(t, model.EmbeddingTFIDF, tr.Previous)
	st = c.State()
	assert.Equal(t, model.EmbeddingOpenAI, st.Confirmed)
	assert.Zero(t, st.Pending)
	assert.Equal(t, ControlState{Checked: true, Active: model.EmbeddingOpenAI}, st.Desktop)
	assert.Equal(t, st.Desktop, st.Mobile)

	for _, k := range feed.kinds() {
		assert.NotEqual(t, model.FeedStatus, k)
	}
}

func TestToggle_FailureWhileAnotherIsPending(t *testing.T) {
	g := newGatedToggler(2)
	feed := &fakeFeed{}
	c := NewController(model.EmbeddingOpenAI, g, feed)

	first := startToggle(t, c, g, Desktop, false)
	second := startToggle(t, c, g, Mobile, false)

	g.gates[0] <- toggleResult{err: errors.New("backend unavailable")}
	tr := <-first
	assert.Equal(t, PhaseRolledBack, tr.Phase)

	st := c.State()
	assert.Equal(t, model.EmbeddingOpenAI, st.Confirmed)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, ControlState{Checked: true, Active: model.EmbeddingOpenAI}, st.Desktop)
	assert.Equal(t, st.Desktop, st.Mobile)

	g.gates[1] <- committed(model.EmbeddingTFIDF)
	tr = <-second
	assert.Equal(t, PhaseCommitted, tr.Phase)

	st = c.State()
	assert.Equal(t, model.EmbeddingTFIDF, st.Confirmed)
	assert.Zero(t, st.Pending)
	assert.Equal(t, ControlState{Checked: false, Active: model.EmbeddingTFIDF}, st.Desktop)
	assert.Equal(t, st.Desktop, st.Mobile)

	assert.Equal(t, []model.FeedKind{model.FeedError, model.FeedBot}, feed.kinds())
	feed.mu.Lock()
	assert.Equal(t, "Error: backend unavailable", feed.msgs[0].Text)
	feed.mu.Unlock()
}
