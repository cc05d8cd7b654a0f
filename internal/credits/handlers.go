package credits

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manus-labs/manus-backend/internal/auth"
)

type Handler struct {
	ledger *Ledger
}

func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// Register attaches credit routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.balance)
	rg.POST("/purchase", h.purchase)
}

// RegisterLogin attaches the login route, which resets the balance to the
// fixed signup grant.
func (h *Handler) RegisterLogin(rg *gin.RouterGroup) {
	rg.POST("/login", h.login)
}

func (h *Handler) balance(c *gin.Context) {
	userID := auth.UserID(c)
	c.JSON(http.StatusOK, gin.H{"ok": true, "credits": h.ledger.Balance(userID)})
}

func (h *Handler) login(c *gin.Context) {
	userID := auth.UserID(c)
	balance := h.ledger.Reset(userID, LoginGrant)
	c.JSON(http.StatusOK, gin.H{"ok": true, "credits": balance})
}

type purchaseReq struct {
	Pack string `json:"pack"`
}

func (h *Handler) purchase(c *gin.Context) {
	var req purchaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	amount, ok := Packs[req.Pack]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown pack"})
		return
	}

	userID := auth.UserID(c)
	balance := h.ledger.Grant(userID, amount)
	c.JSON(http.StatusOK, gin.H{"ok": true, "credits": balance})
}
