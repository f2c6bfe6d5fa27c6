package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/RishithaRamesh/wolfcafeplus/pkg/contracts"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// GET /ws subscribes the caller to its own user scope; staff connections are
// additionally subscribed to the staff broadcast scope.
func (h *handlers) serveWS(c *gin.Context) {
	user, _ := currentUser(c)
	wc, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Log(logging.Fields{Service: "httpapi", UserID: user.ID, Step: "ws_upgrade", Status: "failed", Error: err.Error()})
		return
	}
	scopes := []string{contracts.UserScope(user.ID)}
	if user.IsStaff() {
		scopes = append(scopes, contracts.ScopeStaff)
	}
	h.deps.Hub.HandleConn(wc, scopes)
}
