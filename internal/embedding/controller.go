// Package embedding keeps the embedding mode toggle consistent across the
// desktop and mobile controls and the backend flag.
//
// A toggle is a two-phase transition: the controls are updated optimistically
// while the transition is pending, then the transition is either committed
// with the mode confirmed by the backend or rolled back to the last confirmed
// mode.
package embedding

import (
	"aglc_chat/internal/model"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type Control string

const (
	Desktop Control = "desktop"
	Mobile  Control = "mobile"
)

func (c Control) Valid() bool {
	return c == Desktop || c == Mobile
}

type Phase string

const (
	PhasePending    Phase = "pending"
	PhaseCommitted  Phase = "committed"
	PhaseRolledBack Phase = "rolled-back"
)

var ErrInvalidControl = errors.New("invalid toggle control")

// Toggler 远端切换接口，由后端客户端实现
type Toggler interface {
	ToggleEmbeddings(ctx context.Context, mode model.EmbeddingMode) (*model.ToggleResponse, error)
}

// Feed 聊天区，用于状态提示、确认和错误消息
type Feed interface {
	Post(msg model.FeedMessage) string
	Remove(id string)
}

type ControlState struct {
	Checked bool                `json:"checked"`
	Active  model.EmbeddingMode `json:"active"`
}

type State struct {
	Confirmed model.EmbeddingMode `json:"confirmed"`
	Desktop   ControlState        `json:"desktop"`
	Mobile    ControlState        `json:"mobile"`
	Pending   int                 `json:"pending"`
}

type Transition struct {
	ID        string
	Requested model.EmbeddingMode
	Previous  model.EmbeddingMode
	Result    model.EmbeddingMode
	Phase     Phase
	Err       error
}

type Controller struct {
	mu        sync.Mutex
	confirmed model.EmbeddingMode
	desktop   ControlState
	mobile    ControlState
	pending   int

	toggler Toggler
	feed    Feed
}

func NewController(initial model.EmbeddingMode, toggler Toggler, feed Feed) *Controller {
	if !initial.Valid() {
		initial = model.EmbeddingOpenAI
	}
	c := &Controller{
		confirmed: initial,
		toggler:   toggler,
		feed:      feed,
	}
	c.setControlsLocked(initial)
	return c
}

// Mode 当前已确认的模式，聊天请求使用它
func (c *Controller) Mode() model.EmbeddingMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmed
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Confirmed: c.confirmed,
		Desktop:   c.desktop,
		Mobile:    c.mobile,
		Pending:   c.pending,
	}
}

// Toggle 处理任一开关的交互。请求的模式与已确认模式相同时不发请求，返回 nil。
// 远端失败不会作为 error 返回，而是回滚开关并写入聊天区，结果见 Transition。
// 被后续切换覆盖的请求不会取消，各自按完成顺序写入结果。
func (c *Controller) Toggle(ctx context.Context, source Control, checked bool) (*Transition, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidControl, source)
	}

	requested := model.ModeFromChecked(checked)

	c.mu.Lock()
	c.setControlsLocked(requested)
	if requested == c.confirmed {
		c.mu.Unlock()
		return nil, nil
	}
	t := &Transition{
		ID:        uuid.NewString(),
		Requested: requested,
		Previous:  c.confirmed,
		Phase:     PhasePending,
	}
	c.pending++
	c.mu.Unlock()

	statusID := c.feed.Post(model.FeedMessage{
		Kind: model.FeedStatus,
		Text: fmt.Sprintf("Switching to %s embeddings...", requested.Label()),
	})

	resp, err := c.toggler.ToggleEmbeddings(ctx, requested)
	if err == nil && (resp == nil || !resp.Success) {
		err = rejection(resp)
	}

	c.feed.Remove(statusID)

	if err != nil {
		c.mu.Lock()
		c.pending--
		c.setControlsLocked(c.confirmed)
		t.Result = c.confirmed
		c.mu.Unlock()

		t.Phase = PhaseRolledBack
		t.Err = err
		c.feed.Post(model.FeedMessage{
			Kind: model.FeedError,
			Text: "Error: " + err.Error(),
		})
		return t, nil
	}

	confirmed := resp.EmbeddingType
	if !confirmed.Valid() {
		confirmed = requested
	}

	c.mu.Lock()
	c.pending--
	c.confirmed = confirmed
	// 仍有后续切换未完成时，开关保持后续请求的乐观状态
	if c.pending == 0 {
		c.setControlsLocked(confirmed)
	}
	t.Result = confirmed
	c.mu.Unlock()

	t.Phase = PhaseCommitted
	c.feed.Post(model.FeedMessage{
		Kind:  model.FeedBot,
		Text:  resp.Message,
		Badge: confirmed,
	})
	return t, nil
}

// setControlsLocked 两个开关及其标签总是一起更新
func (c *Controller) setControlsLocked(mode model.EmbeddingMode) {
	s := ControlState{Checked: mode == model.EmbeddingOpenAI, Active: mode}
	c.desktop = s
	c.mobile = s
}

func rejection(resp *model.ToggleResponse) error {
	if resp != nil && resp.Message != "" {
		return errors.New(resp.Message)
	}
	return errors.New("embedding switch was not confirmed")
}
