package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/metrics"
)

const userKey = "httpapi.user"

// Identity reads the identity headers stamped by the auth gateway in front
// of this service. Credential verification itself is the gateway's job; this
// core only consumes the result.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if id != "" {
			role := domain.Role(strings.TrimSpace(c.GetHeader("X-User-Role")))
			if role == "" {
				role = domain.RoleCustomer
			}
			c.Set(userKey, domain.User{
				ID:    id,
				Name:  strings.TrimSpace(c.GetHeader("X-User-Name")),
				Email: strings.TrimSpace(c.GetHeader("X-User-Email")),
				Role:  role,
			})
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return domain.User{}, false
	}
	u, ok := v.(domain.User)
	return u, ok
}

func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}
		c.Next()
	}
}

func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := currentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}
		for _, r := range roles {
			if u.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// Observe records the per-handler request counter and latency histogram.
func Observe(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		m.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
	}
}
