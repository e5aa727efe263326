package loyalty

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"barba-negra-app/internal/models"

	"gorm.io/gorm"
)

// Store owns persistence of loyalty cards and their stamp history.
type Store struct {
	db         *gorm.DB
	cardPrefix string
	codeRand   func(n int) int // swapped out in tests to force collisions
}

func NewStore(db *gorm.DB, cardPrefix string) *Store {
	if cardPrefix == "" {
		cardPrefix = "TF"
	}
	return &Store{db: db, cardPrefix: cardPrefix, codeRand: rand.Intn}
}

// CreateCard opens a new active card for a client. A manual code must be
// unique; when none is supplied a code is generated. A client can hold only
// one active card at a time.
func (s *Store) CreateCard(clientID uint, manualCode string) (*models.LoyaltyCard, error) {
	var client models.Client
	if err := s.db.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("loyalty store: lookup client: %w", err)
	}

	var existing models.LoyaltyCard
	err := s.db.Where("client_id = ? AND state = ?", clientID, models.CardStateActive).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateActiveCard
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("loyalty store: lookup active card: %w", err)
	}

	code := manualCode
	if code != "" {
		var collision models.LoyaltyCard
		if err := s.db.Where("code = ?", code).First(&collision).Error; err == nil {
			return nil, ErrDuplicateCode
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("loyalty store: check code: %w", err)
		}
	} else {
		code, err = s.generateCode()
		if err != nil {
			return nil, err
		}
	}

	card := models.LoyaltyCard{
		Code:     code,
		ClientID: clientID,
		Stamps:   0,
		State:    models.CardStateActive,
	}
	if err := s.db.Create(&card).Error; err != nil {
		return nil, fmt.Errorf("loyalty store: create card: %w", err)
	}
	card.Client = client
	return &card, nil
}

// generateCode builds PREFIX-YYYYMMDD-NNNN codes, retrying on the unlikely
// collision with an existing card.
func (s *Store) generateCode() (string, error) {
	dateStr := time.Now().Format("20060102")
	for attempt := 0; attempt < 5; attempt++ {
		code := fmt.Sprintf("%s-%s-%04d", s.cardPrefix, dateStr, s.codeRand(10000))
		var collision models.LoyaltyCard
		err := s.db.Where("code = ?", code).First(&collision).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("loyalty store: check generated code: %w", err)
		}
	}
	return "", ErrDuplicateCode
}

func (s *Store) GetCard(id uint) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	if err := s.db.Preload("Client").First(&card, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loyalty store: get card: %w", err)
	}
	return &card, nil
}

// GetCardByClient returns the client's active card, or nil when the client
// has none (completed cards are not returned).
func (s *Store) GetCardByClient(clientID uint) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	err := s.db.Preload("Client").
		Where("client_id = ? AND state = ?", clientID, models.CardStateActive).
		First(&card).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loyalty store: get card by client: %w", err)
	}
	return &card, nil
}

func (s *Store) ListCards() ([]models.LoyaltyCard, error) {
	var cards []models.LoyaltyCard
	if err := s.db.Preload("Client").Order("created_at desc").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("loyalty store: list cards: %w", err)
	}
	return cards, nil
}

// DeleteCard removes a card together with its full stamp history.
func (s *Store) DeleteCard(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var card models.LoyaltyCard
		if err := tx.First(&card, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("loyalty store: get card: %w", err)
		}
		if err := tx.Where("card_id = ?", id).Delete(&models.StampEvent{}).Error; err != nil {
			return fmt.Errorf("loyalty store: delete history: %w", err)
		}
		if err := tx.Delete(&card).Error; err != nil {
			return fmt.Errorf("loyalty store: delete card: %w", err)
		}
		return nil
	})
}

func (s *Store) AppendHistory(cardID uint, kind, operator, invoiceRef, notes string) error {
	event := models.StampEvent{
		CardID:     cardID,
		Kind:       kind,
		Operator:   operator,
		InvoiceRef: invoiceRef,
		Notes:      notes,
	}
	if err := s.db.Create(&event).Error; err != nil {
		return fmt.Errorf("loyalty store: append history: %w", err)
	}
	return nil
}

// ListHistory returns a card's stamp events, newest first.
func (s *Store) ListHistory(cardID uint) ([]models.StampEvent, error) {
	var events []models.StampEvent
	if err := s.db.Where("card_id = ?", cardID).Order("created_at desc, id desc").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("loyalty store: list history: %w", err)
	}
	return events, nil
}
