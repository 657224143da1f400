package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"farmstore/internal/gate"
	"farmstore/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const accessTokenParam = "access_token"

// accessLog writes gin's access line with bearer tokens removed from the
// query string.
func accessLog(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: out,
		Formatter: func(p gin.LogFormatterParams) string {
			return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n%s",
				p.TimeStamp.Format("2006/01/02 - 15:04:05"),
				p.StatusCode,
				p.Latency,
				p.ClientIP,
				p.Method,
				redactQuery(p.Path),
				p.ErrorMessage,
			)
		},
	})
}

func redactQuery(path string) string {
	base, raw, ok := strings.Cut(path, "?")
	if !ok || !strings.Contains(raw, accessTokenParam) {
		return path
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return base + "?[unparsable query]"
	}
	if q.Has(accessTokenParam) {
		q.Set(accessTokenParam, "REDACTED")
	}
	return base + "?" + q.Encode()
}

// sessionMiddleware resolves the bearer token once per request and stores
// the session in the request context.
func sessionMiddleware(resolver sessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && websocket.IsWebSocketUpgrade(c.Request) {
			// Browsers cannot set headers on websocket handshakes.
			token = c.Query(accessTokenParam)
		}
		s := resolver.Resolve(c.Request.Context(), token)
		c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), s))
		c.Next()
	}
}

// requireTier rejects requests whose session may not use tier.
func requireTier(tier gate.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.FromContext(c.Request.Context())
		switch gate.Allow(s, tier) {
		case gate.OutcomeRender:
			c.Next()
		case gate.OutcomeLoginRequired:
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "sign in required"})
		case gate.OutcomeAccessDenied:
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Error: "access denied"})
		case gate.OutcomeLoading:
			// session.Resolver settles every request; only a resolver that
			// reports a pending session reaches this.
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorBody{Error: "session unavailable"})
		}
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func currentSession(c *gin.Context) session.Session {
	return session.FromContext(c.Request.Context())
}
