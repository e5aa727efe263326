package models

import (
	"time"

	"gorm.io/gorm"
)

// Service is a catalog entry for a grooming service (corte, afeitado...).
// Service line items on invoices are what earn loyalty stamps.
type Service struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:100;unique;not null" json:"nombre"`
	Description string         `gorm:"type:text" json:"descripcion"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"precio"`
	DurationMin int            `gorm:"default:30" json:"duracion_min"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product is a retail item (pomade, shampoo...) sold alongside services.
type Product struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"size:150;not null" json:"nombre"`
	Description       string         `gorm:"type:text" json:"descripcion"`
	UnitPrice         float64        `gorm:"type:decimal(10,2);not null" json:"precio"`
	CurrentStock      int            `gorm:"default:0" json:"stock"`
	LowStockThreshold int            `gorm:"default:5" json:"stock_minimo"`
	Barcode           string         `gorm:"size:50;index" json:"codigo_barras"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

type StockEntry struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `json:"product_id"`
	Product       Product   `gorm:"foreignKey:ProductID" json:"product"`
	QuantityAdded int       `json:"quantity_added"`
	AddedBy       uint      `json:"added_by"`
	User          User      `gorm:"foreignKey:AddedBy" json:"user"`
	EntryDate     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"entry_date"`
}
