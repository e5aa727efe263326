package handler

import (
	"fmt"
	"net/http"
	"time"

	"barba-negra-app/config"
	"barba-negra-app/internal/models"
	"barba-negra-app/internal/utils"
	"barba-negra-app/pkg/database"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct{}

type CreateEmployeeRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	RoleID   uint   `json:"role_id" binding:"required"`
	Mobile   string `json:"mobile"`
}

// Employee IDs are ROLE_PREFIX + running number, e.g. BAR004.
func generateEmployeeID(roleID uint) string {
	var role models.Role
	database.DB.First(&role, roleID)

	prefix := "EMP"
	switch role.Name {
	case "barber":
		prefix = config.AppConfig.Defaults.BarberPrefix
	case "biller":
		prefix = config.AppConfig.Defaults.BillerPrefix
	case "manager":
		prefix = config.AppConfig.Defaults.ManagerPrefix
	}
	if prefix == "" {
		prefix = "EMP"
	}

	var count int64
	database.DB.Model(&models.User{}).Where("role_id = ?", roleID).Count(&count)
	return fmt.Sprintf("%s%03d", prefix, count+1)
}

func (h *AdminHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	empID := generateEmployeeID(req.RoleID)

	user := models.User{
		EmployeeID:   empID,
		Username:     req.Username,
		Mobile:       req.Mobile,
		PasswordHash: hashedPassword,
		RoleID:       req.RoleID,
		IsActive:     true,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          user.ID,
		"employee_id": user.EmployeeID,
		"username":    user.Username,
	})
}

func (h *AdminHandler) ListEmployees(c *gin.Context) {
	var users []models.User
	if err := database.DB.Preload("Role").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch employees"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) UpdateEmployee(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Username string `json:"username"`
		Mobile   string `json:"mobile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Username != "" {
		updates["username"] = req.Username
	}
	if req.Mobile != "" {
		updates["mobile"] = req.Mobile
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee updated"})
}

func (h *AdminHandler) UpdateEmployeeRole(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		RoleID uint `json:"role_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", id).Update("role_id", req.RoleID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}

func (h *AdminHandler) UpdateEmployeeStatus(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		IsActive *bool  `json:"is_active" binding:"required"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"is_active":       *req.IsActive,
		"inactive_reason": req.Reason,
	}
	if err := database.DB.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *AdminHandler) ResetEmployeePassword(c *gin.Context) {
	id := c.Param("id")
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", id).Update("password_hash", hashedPassword).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

func (h *AdminHandler) GetLoginHistory(c *gin.Context) {
	var history []models.LoginHistory
	if err := database.DB.Preload("User").Order("login_time desc").Limit(100).Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch login history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var clientCount, activeCards, completedCards, lowStock int64
	var todayRevenue float64

	database.DB.Model(&models.Client{}).Count(&clientCount)
	database.DB.Model(&models.LoyaltyCard{}).Where("state = ?", models.CardStateActive).Count(&activeCards)
	database.DB.Model(&models.LoyaltyCard{}).Where("state = ?", models.CardStateCompleted).Count(&completedCards)
	database.DB.Model(&models.Product{}).Where("current_stock <= low_stock_threshold AND is_active = ?", true).Count(&lowStock)
	database.DB.Model(&models.Invoice{}).Where("invoice_date >= ?", startOfDay).
		Select("COALESCE(SUM(net_payable), 0)").Scan(&todayRevenue)

	c.JSON(http.StatusOK, gin.H{
		"clients":         clientCount,
		"active_cards":    activeCards,
		"completed_cards": completedCards,
		"low_stock_items": lowStock,
		"today_revenue":   todayRevenue,
	})
}
