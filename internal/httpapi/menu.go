package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RishithaRamesh/wolfcafeplus/internal/catalog"
	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
)

// GET /menu lists available items; ?all=true includes archived ones.
func (h *handlers) listMenu(c *gin.Context) {
	all := c.Query("all") == "true"
	items, err := h.deps.Catalog.List(c.Request.Context(), all)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) createMenuItem(c *gin.Context) {
	var in catalog.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	item, err := h.deps.Catalog.Create(c.Request.Context(), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *handlers) updateMenuItem(c *gin.Context) {
	var patch domain.MenuItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json: " + err.Error()})
		return
	}
	item, err := h.deps.Catalog.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) archiveMenuItem(c *gin.Context) {
	item, carts, err := h.deps.Catalog.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item, "cascade_count": carts})
}

func (h *handlers) restoreMenuItem(c *gin.Context) {
	item, err := h.deps.Catalog.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) deleteMenuItem(c *gin.Context) {
	if err := h.deps.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}
