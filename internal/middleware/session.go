package middleware

import (
	"aglc_chat/internal/config"
	"aglc_chat/internal/session"
	"aglc_chat/internal/util"
	"aglc_chat/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "session"

// SessionMiddleware 从签名 Cookie 中恢复会话；Cookie 缺失或无效时签发新会话
func SessionMiddleware(cfg *config.SessionConfig, manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := ""
		if token, err := c.Cookie(cfg.CookieName); err == nil && token != "" {
			claims, err := util.ParseSessionToken(token, cfg.Secret)
			if err != nil {
				logger.Log.Debug("discarding session cookie", zap.Error(err))
			} else {
				id = claims.SessionID
			}
		}

		if id == "" {
			id = manager.NewID()
			token, err := util.GenerateSessionToken(id, cfg.Secret, cfg.TTL)
			if err != nil {
				util.LogInternalError(c, err)
				c.Abort()
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, token, int(cfg.TTL.Seconds()), "/", "", false, true)
		}

		sess, err := manager.Get(c.Request.Context(), id)
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}

		util.SetSessionID(c, id)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func GetSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
