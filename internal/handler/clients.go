package handler

import (
	"net/http"

	"barba-negra-app/internal/models"
	"barba-negra-app/pkg/database"

	"github.com/gin-gonic/gin"
)

type ClientsHandler struct{}

type CreateClientRequest struct {
	Name     string `json:"nombre" binding:"required"`
	Document string `json:"dni" binding:"required"`
	Phone    string `json:"telefono"`
	Email    string `json:"email"`
	Notes    string `json:"notas"`
}

func (h *ClientsHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := models.Client{
		Name:     req.Name,
		Document: req.Document,
		Phone:    req.Phone,
		Email:    req.Email,
		Notes:    req.Notes,
	}

	if err := database.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client (document might be duplicate)"})
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *ClientsHandler) SearchClients(c *gin.Context) {
	query := c.Query("q")
	clients := []models.Client{}
	if query == "" {
		database.DB.Limit(20).Find(&clients)
	} else {
		like := "%" + query + "%"
		database.DB.Where("name LIKE ? OR document LIKE ? OR phone LIKE ?", like, like, like).Find(&clients)
	}
	c.JSON(http.StatusOK, clients)
}

func (h *ClientsHandler) GetClient(c *gin.Context) {
	id := c.Param("id")
	var client models.Client
	if err := database.DB.First(&client, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}
	c.JSON(http.StatusOK, client)
}

type UpdateClientRequest struct {
	Name  string `json:"nombre"`
	Phone string `json:"telefono"`
	Email string `json:"email"`
	Notes string `json:"notas"`
}

func (h *ClientsHandler) UpdateClient(c *gin.Context) {
	id := c.Param("id")
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Notes != "" {
		updates["notes"] = req.Notes
	}

	result := database.DB.Model(&models.Client{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cliente no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Cliente actualizado"})
}
