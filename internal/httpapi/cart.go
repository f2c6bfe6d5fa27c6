package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) getCart(c *gin.Context) {
	user, _ := currentUser(c)
	crt, err := h.deps.Cart.Get(c.Request.Context(), user.ID)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, crt)
}

type addToCartRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// POST /cart merges a quantity delta into the user's line for the item;
// negative deltas decrement and remove the line at zero.
func (h *handlers) addToCart(c *gin.Context) {
	user, _ := currentUser(c)
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	if req.MenuItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "menu_item_id is required"})
		return
	}
	crt, err := h.deps.Cart.AddOrIncrement(c.Request.Context(), user.ID, req.MenuItemID, req.Quantity)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, crt)
}

func (h *handlers) removeFromCart(c *gin.Context) {
	user, _ := currentUser(c)
	crt, err := h.deps.Cart.Remove(c.Request.Context(), user.ID, c.Param("menuItemId"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, crt)
}
