package models

import (
	"time"
)

type Invoice struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Number         string        `gorm:"size:50;unique;not null" json:"numero"`
	InvoiceDate    time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"fecha"`
	ClientID       *uint         `json:"cliente_id"` // nullable, walk-ins have no client record
	Client         *Client       `gorm:"foreignKey:ClientID" json:"cliente,omitempty"`
	UserID         uint          `json:"user_id"`
	User           User          `gorm:"foreignKey:UserID" json:"user"`
	Employee       string        `gorm:"size:100" json:"empleado"` // barber who performed the services
	TotalAmount    float64       `gorm:"type:decimal(10,2);not null" json:"total"`
	DiscountAmount float64       `gorm:"type:decimal(10,2);default:0.00" json:"descuento"`
	NetPayable     float64       `gorm:"type:decimal(10,2);not null" json:"neto"`
	PaymentMode    string        `gorm:"size:20;default:'CASH'" json:"forma_pago"`
	Status         string        `gorm:"size:20;default:'PAID'" json:"estado"`
	Items          []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`
}

// InvoiceItem is one line of an invoice. Exactly one of ServiceID or
// ProductID is set. FreePrice marks a promotional zero/reduced price sale;
// it does not affect loyalty stamping.
type InvoiceItem struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	InvoiceID   uint     `json:"factura_id"`
	ServiceID   *uint    `json:"servicio_id"`
	Service     *Service `gorm:"foreignKey:ServiceID" json:"servicio,omitempty"`
	ProductID   *uint    `json:"producto_id"`
	Product     *Product `gorm:"foreignKey:ProductID" json:"producto,omitempty"`
	Description string   `gorm:"size:150" json:"descripcion"`
	Quantity    int      `gorm:"not null" json:"cantidad"`
	UnitPrice   float64  `gorm:"type:decimal(10,2);not null" json:"precio_unitario"`
	Total       float64  `gorm:"type:decimal(10,2);not null" json:"total"`
	FreePrice   bool     `gorm:"default:false" json:"gratis"`
}
