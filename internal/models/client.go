package models

import (
	"time"
)

// Client is a walk-in or regular customer of the shop. Document is the
// identity document shown on invoices and loyalty-card listings.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"nombre"`
	Document  string    `gorm:"size:30;unique;not null" json:"dni"`
	Phone     string    `gorm:"size:15" json:"telefono"`
	Email     string    `gorm:"size:100" json:"email"`
	Notes     string    `gorm:"type:text" json:"notas"`
	CreatedAt time.Time `json:"created_at"`
}
