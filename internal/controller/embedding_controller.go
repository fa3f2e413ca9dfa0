package controller

import (
	"aglc_chat/internal/embedding"
	"aglc_chat/internal/middleware"
	"aglc_chat/internal/service"
	"aglc_chat/internal/util"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type EmbeddingController struct {
	embeddingService *service.EmbeddingService
}

func NewEmbeddingController(embeddingService *service.EmbeddingService) *EmbeddingController {
	return &EmbeddingController{embeddingService: embeddingService}
}

// Toggle 切换嵌入模式
// @Summary 切换嵌入模式
// @Description 勾选为 OpenAI，未勾选为 TF-IDF；返回聊天区片段和两个开关的带外更新
// @Tags 嵌入
// @Accept x-www-form-urlencoded
// @Produce html
// @Param control formData string true "desktop 或 mobile"
// @Param checked formData string false "on 表示勾选"
// @Success 200 {string} string "HTML"
// @Failure 400 {object} util.Response
// @Router /ui/embedding [post]
func (ec *EmbeddingController) Toggle(c *gin.Context) {
	sess := middleware.GetSession(c)
	control := embedding.Control(c.PostForm("control"))
	checked := c.PostForm("checked") == "on"

	ctx := context.WithoutCancel(c.Request.Context())
	if _, err := ec.embeddingService.Toggle(ctx, sess, control, checked); err != nil {
		if errors.Is(err, embedding.ErrInvalidControl) {
			util.BadRequest(c, err.Error())
			return
		}
		util.LogInternalError(c, err)
		return
	}

	c.HTML(http.StatusOK, "toggle_response", pageOf(sess))
}
