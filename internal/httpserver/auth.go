package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mayorista-bff/internal/session"
	"mayorista-bff/internal/upstream"
)

const (
	sessionKey   = "bff.session"
	sessionIDKey = "bff.sid"
)

type loginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// loginHandler forwards the credentials upstream, stores the returned bearer
// token in a fresh session and hands the browser an HttpOnly cookie. The
// token itself never reaches the frontend.
func loginHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "userName y password son requeridos"})
			return
		}

		result, err := deps.Upstream.Login(c.Request.Context(), req.UserName, req.Password)
		if err != nil {
			var statusErr *upstream.StatusError
			if errors.As(err, &statusErr) {
				relayUpstream(c, statusErr)
				return
			}
			if errors.Is(err, upstream.ErrNoToken) {
				c.JSON(http.StatusBadGateway, gin.H{"message": "la API no devolvió token en el login"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"message": "la API no respondió"})
			return
		}

		sid, sess := deps.Sessions.Create(session.Session{
			AccessToken: result.Token,
			Role:        result.Role,
			UserID:      result.UserID,
			RawLogin:    result.Raw,
		})

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(deps.CookieName, sid, int(deps.Sessions.TTL().Seconds()), "/", "", c.Request.TLS != nil, true)

		c.JSON(http.StatusOK, gin.H{
			"rolUsuario": result.Role,
			"idUsuario":  result.UserID,
			"expiresAt":  sess.ExpiresAt,
		})
	}
}

func logoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sid, err := c.Cookie(deps.CookieName); err == nil && strings.TrimSpace(sid) != "" {
			deps.Sessions.Delete(sid)
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(deps.CookieName, "", -1, "/", "", c.Request.TLS != nil, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func meHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, _, ok := lookupSession(c, deps)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "No autenticado (sesión inválida o vencida)."})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"rolUsuario": sess.Role,
			"idUsuario":  sess.UserID,
			"expiresAt":  sess.ExpiresAt,
		})
	}
}

// requireSession aborts with 401 unless the request carries a live session
// cookie. The session and sid are left in the gin context for handlers.
func requireSession(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, sid, ok := lookupSession(c, deps)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No autenticado (sesión inválida o vencida)."})
			return
		}
		c.Set(sessionKey, sess)
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

func lookupSession(c *gin.Context, deps Deps) (session.Session, string, bool) {
	sid, err := c.Cookie(deps.CookieName)
	if err != nil || strings.TrimSpace(sid) == "" {
		return session.Session{}, "", false
	}
	sess, ok := deps.Sessions.Get(sid)
	if !ok {
		return session.Session{}, "", false
	}
	return sess, sid, true
}

func sessionFrom(c *gin.Context) session.Session {
	v, _ := c.Get(sessionKey)
	sess, _ := v.(session.Session)
	return sess
}

// cartOwner keys the session's cart: by user id when the login reported one,
// otherwise by the session id itself.
func cartOwner(c *gin.Context) string {
	sess := sessionFrom(c)
	if sess.UserID != "" {
		return sess.UserID
	}
	v, _ := c.Get(sessionIDKey)
	sid, _ := v.(string)
	return sid
}

// relayUpstream passes an upstream error response through: JSON bodies stay
// JSON, anything else goes out as plain text.
func relayUpstream(c *gin.Context, err *upstream.StatusError) {
	if json.Valid(err.Body) {
		c.Data(err.Code, "application/json", err.Body)
		return
	}
	c.String(err.Code, "%s", err.Body)
}
