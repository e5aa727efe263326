package models

import (
	"time"
)

const (
	CardStateActive    = "active"
	CardStateCompleted = "completed"

	StampKindManual    = "manual"
	StampKindAutomatic = "automatic"
	StampKindRemove    = "remove"
)

// LoyaltyCard accumulates one stamp per service unit sold. A client has at
// most one card in state 'active'; reaching the stamp target freezes the
// card in state 'completed' and the next service is free.
type LoyaltyCard struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"size:30;unique;not null" json:"codigo"`
	ClientID    uint       `gorm:"not null;index" json:"cliente_id"`
	Client      Client     `gorm:"foreignKey:ClientID" json:"cliente"`
	Stamps      int        `gorm:"default:0" json:"sellos"`
	State       string     `gorm:"size:20;default:'active'" json:"estado"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// StampEvent is the append-only audit log of stamp mutations. The Stamps
// counter on the card is authoritative; these rows are never replayed.
type StampEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CardID     uint      `gorm:"not null;index" json:"tarjeta_id"`
	Kind       string    `gorm:"size:20;not null" json:"tipo"`
	Operator   string    `gorm:"size:100" json:"empleado"`
	InvoiceRef string    `gorm:"size:50" json:"factura"`
	Notes      string    `gorm:"type:text" json:"observaciones"`
	CreatedAt  time.Time `json:"fecha"`
}
