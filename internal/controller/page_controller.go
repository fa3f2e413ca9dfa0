package controller

import (
	"aglc_chat/internal/embedding"
	"aglc_chat/internal/middleware"
	"aglc_chat/internal/model"
	"aglc_chat/internal/session"
	"aglc_chat/internal/util"
	"aglc_chat/internal/view"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PageController struct{}

func NewPageController() *PageController {
	return &PageController{}
}

// SessionView /api/session 返回的会话状态
type SessionView struct {
	ID      string               `json:"id"`
	Mode    model.EmbeddingMode  `json:"mode"`
	Toggles embedding.State      `json:"toggles"`
	Turns   []model.ChatTurn     `json:"turns"`
	History []model.HistoryEntry `json:"history"`
	Feed    []model.FeedMessage  `json:"feed"`
}

func pageOf(sess *session.Session) view.Page {
	return view.NewPage(sess.Feed(), sess.History().Entries(), sess.Embedding().State())
}

// @Summary 聊天页面
// @Tags 页面
// @Produce html
// @Success 200 {string} string "HTML"
// @Router / [get]
func (pc *PageController) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", pageOf(middleware.GetSession(c)))
}

// @Summary 聊天区片段
// @Tags 页面
// @Produce html
// @Success 200 {string} string "HTML"
// @Router /ui/feed [get]
func (pc *PageController) Feed(c *gin.Context) {
	c.HTML(http.StatusOK, "feed", pageOf(middleware.GetSession(c)))
}

// @Summary 引用面板片段
// @Tags 页面
// @Produce html
// @Success 200 {string} string "HTML"
// @Router /ui/citations [get]
func (pc *PageController) Citations(c *gin.Context) {
	c.HTML(http.StatusOK, "citations", pageOf(middleware.GetSession(c)))
}

// @Summary 嵌入开关片段
// @Tags 页面
// @Produce html
// @Success 200 {string} string "HTML"
// @Router /ui/toggles [get]
func (pc *PageController) Toggles(c *gin.Context) {
	c.HTML(http.StatusOK, "toggles", pageOf(middleware.GetSession(c)))
}

// @Summary 当前会话状态
// @Description 嵌入模式、两个开关的状态、引用历史和聊天消息
// @Tags 会话
// @Produce json
// @Success 200 {object} util.Response{data=SessionView}
// @Router /api/session [get]
func (pc *PageController) Session(c *gin.Context) {
	sess := middleware.GetSession(c)
	util.Success(c, SessionView{
		ID:      sess.ID,
		Mode:    sess.Embedding().Mode(),
		Toggles: sess.Embedding().State(),
		Turns:   sess.Turns(),
		History: sess.History().Entries(),
		Feed:    sess.Feed(),
	})
}
