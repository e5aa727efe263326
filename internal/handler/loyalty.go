package handler

import (
	"errors"
	"net/http"
	"strconv"

	"barba-negra-app/internal/loyalty"
	"barba-negra-app/internal/models"

	"github.com/gin-gonic/gin"
)

type LoyaltyHandler struct {
	Store  *loyalty.Store
	Engine *loyalty.Engine
}

func NewLoyaltyHandler(store *loyalty.Store, engine *loyalty.Engine) *LoyaltyHandler {
	return &LoyaltyHandler{Store: store, Engine: engine}
}

func (h *LoyaltyHandler) ListCards(c *gin.Context) {
	cards, err := h.Store.ListCards()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cards"})
		return
	}
	c.JSON(http.StatusOK, cards)
}

type CreateCardRequest struct {
	ClientID   uint   `json:"clienteId" binding:"required"`
	ManualCode string `json:"codigoManual"`
}

func (h *LoyaltyHandler) CreateCard(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := h.Store.CreateCard(req.ClientID, req.ManualCode)
	switch {
	case errors.Is(err, loyalty.ErrClientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
	case errors.Is(err, loyalty.ErrDuplicateActiveCard):
		c.JSON(http.StatusBadRequest, gin.H{"error": "El cliente ya tiene una tarjeta activa"})
	case errors.Is(err, loyalty.ErrDuplicateCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "El código ya está en uso"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create card"})
	default:
		c.JSON(http.StatusCreated, card)
	}
}

// CardByClient returns the client's active card, or a JSON null when the
// client has none.
func (h *LoyaltyHandler) CardByClient(c *gin.Context) {
	clientID, ok := parseID(c, "clienteId")
	if !ok {
		return
	}

	card, err := h.Store.GetCardByClient(clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch card"})
		return
	}
	if card == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, card)
}

type AddStampRequest struct {
	Employee string `json:"empleado" binding:"required"`
	Notes    string `json:"observaciones"`
}

func (h *LoyaltyHandler) AddStamp(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AddStampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Engine.AddStamp(id, models.StampKindManual, req.Employee, "", req.Notes)
	switch {
	case errors.Is(err, loyalty.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Tarjeta no encontrada"})
		return
	case errors.Is(err, loyalty.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "La tarjeta no admite sellos en su estado actual"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add stamp"})
		return
	}

	c.JSON(http.StatusOK, stampResponse(res))
}

type RemoveStampRequest struct {
	Employee string `json:"empleado" binding:"required"`
}

func (h *LoyaltyHandler) RemoveStamp(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req RemoveStampRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Engine.RemoveStamp(id, req.Employee)
	switch {
	case errors.Is(err, loyalty.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Tarjeta no encontrada"})
		return
	case errors.Is(err, loyalty.ErrNoStampsToRemove):
		c.JSON(http.StatusBadRequest, gin.H{"error": "La tarjeta no tiene sellos para quitar"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove stamp"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"mensaje":         res.Message,
		"sellos_actuales": res.Stamps,
	})
}

func (h *LoyaltyHandler) History(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	events, err := h.Store.ListHistory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *LoyaltyHandler) DeleteCard(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.Store.DeleteCard(id)
	switch {
	case errors.Is(err, loyalty.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Tarjeta no encontrada"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete card"})
	default:
		c.JSON(http.StatusOK, gin.H{"mensaje": "Tarjeta eliminada"})
	}
}

func stampResponse(res *loyalty.Result) gin.H {
	resp := gin.H{"mensaje": res.Message}
	switch {
	case res.AlreadyCompleted:
		resp["tarjeta_completada"] = true
		resp["sellos_actuales"] = res.Stamps
	case res.Completed:
		resp["tarjeta_completada"] = true
		resp["sellos_actuales"] = res.Stamps
	default:
		resp["sellos_actuales"] = res.Stamps
		resp["sellos_restantes"] = res.Remaining
		if res.NextIsFree {
			resp["proximo_gratis"] = true
		}
	}
	return resp
}

func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}
