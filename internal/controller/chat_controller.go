package controller

import (
	"aglc_chat/internal/middleware"
	"aglc_chat/internal/service"
	"aglc_chat/internal/util"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	chatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// Submit 提交问题
// @Summary 提交问题
// @Description 发送问题到问答后端，返回聊天区片段和带外更新的引用面板
// @Tags 聊天
// @Accept x-www-form-urlencoded
// @Produce html
// @Param message formData string true "问题内容"
// @Success 200 {string} string "HTML"
// @Router /ui/chat [post]
func (cc *ChatController) Submit(c *gin.Context) {
	sess := middleware.GetSession(c)

	// 客户端断开不影响进行中的请求
	ctx := context.WithoutCancel(c.Request.Context())
	err := cc.chatService.Submit(ctx, sess, c.PostForm("message"))
	if err != nil && !errors.Is(err, util.ErrEmptyMessage) {
		util.LogInternalError(c, err)
		return
	}

	c.HTML(http.StatusOK, "chat_response", pageOf(sess))
}
