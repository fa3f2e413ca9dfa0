package controller

import (
	"aglc_chat/internal/session"
	"aglc_chat/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	sessions *session.Manager
	store    string
}

func NewHealthController(sessions *session.Manager, store string) *HealthController {
	return &HealthController{sessions: sessions, store: store}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (hc *HealthController) HealthCheck(c *gin.Context) {
	// 检查会话存储
	if err := hc.sessions.Ping(c.Request.Context()); err != nil {
		util.Error(c, http.StatusServiceUnavailable, "Session store unavailable")
		return
	}

	util.Success(c, gin.H{
		"status": "ok",
		"components": gin.H{
			"session_store": hc.store,
		},
	})
}
