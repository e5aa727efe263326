package handler

import (
	"fmt"
	"net/http"
	"time"

	"barba-negra-app/config"
	"barba-negra-app/internal/loyalty"
	"barba-negra-app/internal/models"
	"barba-negra-app/pkg/database"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	Hook *loyalty.Hook
}

// Helper to generate invoice number: F-YYYYMMDD-SEQ
func generateInvoiceNo() string {
	prefix := config.AppConfig.Defaults.InvoicePrefix
	dateStr := time.Now().Format("20060102")

	var lastInvoice models.Invoice
	database.DB.Order("id desc").First(&lastInvoice)

	newID := lastInvoice.ID + 1 // simple increment strategy
	return fmt.Sprintf("%s-%s-%05d", prefix, dateStr, newID)
}

type InvoiceItemRequest struct {
	ServiceID   *uint   `json:"servicio_id"`
	ProductID   *uint   `json:"producto_id"`
	Description string  `json:"descripcion"`
	Quantity    int     `json:"cantidad" binding:"required,gt=0"`
	UnitPrice   float64 `json:"precio_unitario"`
	Total       float64 `json:"total"`
	FreePrice   bool    `json:"gratis"`
}

type CreateInvoiceRequest struct {
	ClientID       *uint                `json:"cliente_id"`
	Employee       string               `json:"empleado" binding:"required"`
	DiscountAmount float64              `json:"descuento"`
	PaymentMode    string               `json:"forma_pago" binding:"required"`
	Items          []InvoiceItemRequest `json:"items" binding:"required,dive"`
}

func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	invoiceNo := generateInvoiceNo()

	tx := database.DB.Begin()

	invoice := models.Invoice{
		Number:         invoiceNo,
		InvoiceDate:    time.Now(),
		ClientID:       req.ClientID,
		UserID:         userID,
		Employee:       req.Employee,
		DiscountAmount: req.DiscountAmount,
		PaymentMode:    req.PaymentMode,
		Status:         "PAID",
	}

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice record"})
		return
	}

	var total float64
	for _, itemReq := range req.Items {
		item := models.InvoiceItem{
			InvoiceID:   invoice.ID,
			Description: itemReq.Description,
			Quantity:    itemReq.Quantity,
			UnitPrice:   itemReq.UnitPrice,
			Total:       itemReq.Total,
			FreePrice:   itemReq.FreePrice,
		}

		switch {
		case itemReq.ServiceID != nil:
			var service models.Service
			if err := tx.Where("id = ? AND is_active = ?", *itemReq.ServiceID, true).First(&service).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Service ID %d not found", *itemReq.ServiceID)})
				return
			}
			item.ServiceID = itemReq.ServiceID
			if item.Description == "" {
				item.Description = service.Name
			}

		case itemReq.ProductID != nil:
			var product models.Product
			if err := tx.Where("id = ?", *itemReq.ProductID).First(&product).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Product ID %d not found", *itemReq.ProductID)})
				return
			}
			if product.CurrentStock < itemReq.Quantity {
				tx.Rollback()
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Insufficient stock for %s", product.Name)})
				return
			}
			if err := tx.Model(&models.Product{}).Where("id = ?", *itemReq.ProductID).
				Update("current_stock", product.CurrentStock-itemReq.Quantity).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
				return
			}
			item.ProductID = itemReq.ProductID
			if item.Description == "" {
				item.Description = product.Name
			}

		default:
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each item needs a servicio_id or producto_id"})
			return
		}

		if err := tx.Create(&item).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add invoice item"})
			return
		}

		total += item.Total
		invoice.Items = append(invoice.Items, item)
	}

	invoice.TotalAmount = total
	invoice.NetPayable = total - req.DiscountAmount
	if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{"total_amount": invoice.TotalAmount, "net_payable": invoice.NetPayable}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize invoice"})
		return
	}

	tx.Commit()

	// Loyalty stamping runs after the sale is committed and can never fail
	// the sale; its notices ride back on the response.
	var notices []loyalty.Notice
	if h.Hook != nil {
		notices = h.Hook.ProcessInvoice(&invoice)
	}

	c.JSON(http.StatusCreated, gin.H{
		"mensaje":    "Factura creada",
		"numero":     invoiceNo,
		"factura_id": invoice.ID,
		"fidelidad":  notices,
	})
}

func (h *BillingHandler) ListInvoices(c *gin.Context) {
	page := 1
	limit := 10

	if c.Query("page") != "" {
		fmt.Sscanf(c.Query("page"), "%d", &page)
	}
	if c.Query("limit") != "" {
		fmt.Sscanf(c.Query("limit"), "%d", &limit)
	}

	offset := (page - 1) * limit

	var invoices []models.Invoice
	var total int64

	database.DB.Model(&models.Invoice{}).Count(&total)

	if err := database.DB.Preload("Client").Preload("User").Preload("Items").
		Preload("Items.Service").Preload("Items.Product").
		Order("invoice_date desc").Limit(limit).Offset(offset).Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  invoices,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *BillingHandler) GetNextInvoiceNo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"next_invoice_no": generateInvoiceNo()})
}

func (h *BillingHandler) MyTodaySales(c *gin.Context) {
	userID := c.GetUint("userID")
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var invoices []models.Invoice
	if err := database.DB.Where("user_id = ? AND invoice_date >= ? AND invoice_date < ?", userID, startOfDay, endOfDay).
		Order("invoice_date desc").Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales data"})
		return
	}

	var total float64
	hourlySales := make([]float64, 24)

	for _, inv := range invoices {
		total += inv.NetPayable
		hour := inv.InvoiceDate.Hour()
		if hour >= 0 && hour < 24 {
			hourlySales[hour] += inv.NetPayable
		}
	}

	recent := invoices
	if len(recent) > 5 {
		recent = recent[:5]
	}

	c.JSON(http.StatusOK, gin.H{
		"sales":           total,
		"hourly_sales":    hourlySales,
		"recent_invoices": recent,
	})
}

func (h *BillingHandler) GetSalesReport(c *gin.Context) {
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	var invoices []models.Invoice
	query := database.DB.Preload("Items").Preload("User")

	if startDateStr != "" && endDateStr != "" {
		startDate, _ := time.Parse("2006-01-02", startDateStr)
		endDate, _ := time.Parse("2006-01-02", endDateStr)
		endDate = endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

		query = query.Where("invoice_date BETWEEN ? AND ?", startDate, endDate)
	}

	if err := query.Find(&invoices).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales report"})
		return
	}

	var totalRevenue float64
	var totalTransactions int
	var servicesSold int
	var productsSold int

	for _, inv := range invoices {
		totalRevenue += inv.NetPayable
		totalTransactions++
		for _, item := range inv.Items {
			if item.ServiceID != nil {
				servicesSold += item.Quantity
			} else {
				productsSold += item.Quantity
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": gin.H{
			"total_revenue":      totalRevenue,
			"total_transactions": totalTransactions,
			"services_sold":      servicesSold,
			"products_sold":      productsSold,
		},
		"transactions": invoices,
	})
}
