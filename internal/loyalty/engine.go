package loyalty

import (
	"errors"
	"fmt"
	"time"

	"barba-negra-app/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result reports the outcome of a stamp operation.
type Result struct {
	Stamps           int
	Remaining        int
	NextIsFree       bool
	Completed        bool
	AlreadyCompleted bool
	Message          string
}

// Engine enforces the stamp state machine: active cards accumulate stamps,
// reaching the target completes the card and freezes it. Each operation runs
// in a single transaction holding a row lock on the card, so concurrent
// stamping cannot lose updates.
type Engine struct {
	db     *gorm.DB
	target int
}

func NewEngine(db *gorm.DB, target int) *Engine {
	if target <= 0 {
		target = 10
	}
	return &Engine{db: db, target: target}
}

func (e *Engine) Target() int { return e.target }

// lockedCard loads a card under SELECT ... FOR UPDATE. SQLite has no row
// locks; its single-writer model covers the same ground in tests.
func lockedCard(tx *gorm.DB, cardID uint) (*models.LoyaltyCard, error) {
	if tx.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var card models.LoyaltyCard
	if err := tx.First(&card, cardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("loyalty engine: load card: %w", err)
	}
	return &card, nil
}

// AddStamp adds one stamp to the card. A completed card is a soft no-op:
// the caller gets AlreadyCompleted and nothing is written, because the
// client has to ask for a new card to keep earning.
func (e *Engine) AddStamp(cardID uint, kind, operator, invoiceRef, notes string) (*Result, error) {
	var res *Result
	err := e.db.Transaction(func(tx *gorm.DB) error {
		card, err := lockedCard(tx, cardID)
		if err != nil {
			return err
		}

		switch card.State {
		case models.CardStateCompleted:
			res = &Result{
				Stamps:           card.Stamps,
				AlreadyCompleted: true,
				Message:          "La tarjeta ya está completada. El cliente debe solicitar una nueva tarjeta.",
			}
			return nil
		case models.CardStateActive:
			// proceed
		default:
			return ErrInvalidState
		}

		next := card.Stamps + 1
		if next >= e.target {
			now := time.Now()
			updates := map[string]interface{}{
				"stamps":       e.target,
				"state":        models.CardStateCompleted,
				"completed_at": &now,
			}
			if err := tx.Model(card).Updates(updates).Error; err != nil {
				return fmt.Errorf("loyalty engine: complete card: %w", err)
			}
			if err := appendEvent(tx, cardID, kind, operator, invoiceRef, notes); err != nil {
				return err
			}
			res = &Result{
				Stamps:    e.target,
				Completed: true,
				Message:   "¡Tarjeta completada! El próximo servicio es gratis.",
			}
			return nil
		}

		if err := tx.Model(card).Update("stamps", next).Error; err != nil {
			return fmt.Errorf("loyalty engine: add stamp: %w", err)
		}
		if err := appendEvent(tx, cardID, kind, operator, invoiceRef, notes); err != nil {
			return err
		}
		res = &Result{
			Stamps:     next,
			Remaining:  e.target - next,
			NextIsFree: next == e.target-1,
			Message:    fmt.Sprintf("Sello agregado (%d/%d).", next, e.target),
		}
		if res.NextIsFree {
			res.Message = fmt.Sprintf("Sello agregado (%d/%d). ¡La próxima visita es gratis!", next, e.target)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// RemoveStamp takes one stamp off the card. It never reverts a completed
// card back to active; it only adjusts the counter.
func (e *Engine) RemoveStamp(cardID uint, operator string) (*Result, error) {
	var res *Result
	err := e.db.Transaction(func(tx *gorm.DB) error {
		card, err := lockedCard(tx, cardID)
		if err != nil {
			return err
		}

		if card.Stamps <= 0 {
			return ErrNoStampsToRemove
		}

		next := card.Stamps - 1
		if err := tx.Model(card).Update("stamps", next).Error; err != nil {
			return fmt.Errorf("loyalty engine: remove stamp: %w", err)
		}
		if err := appendEvent(tx, cardID, models.StampKindRemove, operator, "", ""); err != nil {
			return err
		}
		res = &Result{
			Stamps:    next,
			Remaining: e.target - next,
			Message:   fmt.Sprintf("Sello eliminado (%d/%d).", next, e.target),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func appendEvent(tx *gorm.DB, cardID uint, kind, operator, invoiceRef, notes string) error {
	event := models.StampEvent{
		CardID:     cardID,
		Kind:       kind,
		Operator:   operator,
		InvoiceRef: invoiceRef,
		Notes:      notes,
	}
	if err := tx.Create(&event).Error; err != nil {
		return fmt.Errorf("loyalty engine: append event: %w", err)
	}
	return nil
}
