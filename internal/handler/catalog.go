package handler

import (
	"net/http"

	"barba-negra-app/internal/models"
	"barba-negra-app/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CatalogHandler struct{}

// Services

type CreateServiceRequest struct {
	Name        string  `json:"nombre" binding:"required"`
	Description string  `json:"descripcion"`
	Price       float64 `json:"precio" binding:"required"`
	DurationMin int     `json:"duracion_min"`
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DurationMin: req.DurationMin,
		IsActive:    true,
	}

	if err := database.DB.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := database.DB.Where("is_active = ?", true).Order("name").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *CatalogHandler) DeactivateService(c *gin.Context) {
	id := c.Param("id")
	result := database.DB.Model(&models.Service{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate service"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Servicio no encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensaje": "Servicio desactivado"})
}

// Products

type CreateProductRequest struct {
	Name              string  `json:"nombre" binding:"required"`
	Description       string  `json:"descripcion"`
	UnitPrice         float64 `json:"precio" binding:"required"`
	LowStockThreshold int     `json:"stock_minimo"`
	Barcode           string  `json:"codigo_barras"`
	OpeningStock      int     `json:"stock_inicial"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")

	tx := database.DB.Begin()

	product := models.Product{
		Name:              req.Name,
		Description:       req.Description,
		UnitPrice:         req.UnitPrice,
		LowStockThreshold: req.LowStockThreshold,
		CurrentStock:      req.OpeningStock,
		Barcode:           req.Barcode,
		IsActive:          true,
	}

	if err := tx.Create(&product).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	if req.OpeningStock > 0 {
		entry := models.StockEntry{
			ProductID:     product.ID,
			QuantityAdded: req.OpeningStock,
			AddedBy:       userID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log opening stock"})
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Where("is_active = ?", true).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

type AddStockRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity" binding:"required"`
}

func (h *CatalogHandler) AddStock(c *gin.Context) {
	var req AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")

	tx := database.DB.Begin()

	if err := tx.Model(&models.Product{}).Where("id = ?", req.ProductID).
		Update("current_stock", gorm.Expr("current_stock + ?", req.Quantity)).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}

	entry := models.StockEntry{
		ProductID:     uint(req.ProductID),
		QuantityAdded: req.Quantity,
		AddedBy:       userID,
	}

	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log stock entry"})
		return
	}

	tx.Commit()
	c.JSON(http.StatusOK, gin.H{"message": "Stock added successfully"})
}

func (h *CatalogHandler) GetLowStockAlerts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Where("current_stock <= low_stock_threshold AND is_active = ?", true).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, products)
}
