package loyalty

import (
	"fmt"
	"log"

	"barba-negra-app/internal/models"
)

// Notice is an operator-facing notification produced while stamping an
// invoice (reward granted, next visit free, progress).
type Notice struct {
	Type    string `json:"tipo"`
	Message string `json:"mensaje"`
}

const (
	NoticeStamps    = "sellos"
	NoticeNextFree  = "proximo_gratis"
	NoticeCompleted = "tarjeta_completada"
)

// Hook turns a saved invoice into a sequence of stamp calls. It never
// returns an error: billing must not fail because of loyalty, so every
// failure is logged and dropped.
type Hook struct {
	store  *Store
	engine *Engine
}

func NewHook(store *Store, engine *Engine) *Hook {
	return &Hook{store: store, engine: engine}
}

// ProcessInvoice awards one stamp per service unit on the invoice. The
// free-price flag is ignored on purpose: promotional pricing is independent
// of the loyalty program. Units left over once the card completes are
// discarded; the client has to request a new card.
func (h *Hook) ProcessInvoice(inv *models.Invoice) []Notice {
	if inv == nil || inv.ClientID == nil {
		return nil
	}

	card, err := h.store.GetCardByClient(*inv.ClientID)
	if err != nil {
		log.Printf("loyalty: skipping invoice %s, card lookup failed: %v", inv.Number, err)
		return nil
	}
	if card == nil {
		return nil
	}

	units := 0
	for _, item := range inv.Items {
		if item.ServiceID != nil && item.Quantity > 0 {
			units += item.Quantity
		}
	}
	if units == 0 {
		return nil
	}

	var notices []Notice
	var last *Result
	for i := 0; i < units; i++ {
		res, err := h.engine.AddStamp(card.ID, models.StampKindAutomatic, inv.Employee, inv.Number, "")
		if err != nil {
			log.Printf("loyalty: stamp %d/%d for invoice %s failed: %v", i+1, units, inv.Number, err)
			continue
		}
		if res.AlreadyCompleted {
			break
		}
		last = res
		if res.Completed {
			notices = append(notices, Notice{Type: NoticeCompleted, Message: res.Message})
			break
		}
		if res.NextIsFree {
			notices = append(notices, Notice{Type: NoticeNextFree, Message: res.Message})
		}
	}

	if last != nil && !last.Completed {
		notices = append(notices, Notice{
			Type:    NoticeStamps,
			Message: fmt.Sprintf("Tarjeta %s: %d/%d sellos.", card.Code, last.Stamps, h.engine.Target()),
		})
	}
	return notices
}
