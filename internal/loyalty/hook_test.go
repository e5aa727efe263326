package loyalty

import (
	"testing"

	"barba-negra-app/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func serviceLine(serviceID uint, qty int, free bool) models.InvoiceItem {
	return models.InvoiceItem{ServiceID: uintPtr(serviceID), Quantity: qty, FreePrice: free}
}

func productLine(productID uint, qty int) models.InvoiceItem {
	return models.InvoiceItem{ProductID: uintPtr(productID), Quantity: qty}
}

func buildHook(t *testing.T) (*Hook, *Store, *Engine, *models.Client) {
	t.Helper()
	db := newTestDB(t)
	store := NewStore(db, "TF")
	engine := NewEngine(db, 10)
	client := createClient(t, db, "Ana", "22222222B")
	return NewHook(store, engine), store, engine, &client
}

func TestProcessInvoiceStampsPerServiceUnit(t *testing.T) {
	hook, store, _, client := buildHook(t)

	card, err := store.CreateCard(client.ID, "")
	require.NoError(t, err)
	require.NoError(t, store.db.Model(&models.LoyaltyCard{}).Where("id = ?", card.ID).Update("stamps", 6).Error)

	// 2 paid units plus 1 free-price unit: the free flag never suppresses stamping
	inv := &models.Invoice{
		Number:   "F-20250101-00001",
		ClientID: uintPtr(client.ID),
		Employee: "Marta",
		Items: []models.InvoiceItem{
			serviceLine(1, 2, false),
			serviceLine(2, 1, true),
		},
	}

	notices := hook.ProcessInvoice(inv)

	stored := reloadCard(t, store.db, card.ID)
	assert.Equal(t, 9, stored.Stamps)
	assert.Equal(t, models.CardStateActive, stored.State)

	var sawNextFree bool
	for _, n := range notices {
		if n.Type == NoticeNextFree {
			sawNextFree = true
		}
	}
	assert.True(t, sawNextFree, "ninth stamp must announce the free next visit")

	events, err := store.ListHistory(card.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, models.StampKindAutomatic, e.Kind)
		assert.Equal(t, "F-20250101-00001", e.InvoiceRef)
		assert.Equal(t, "Marta", e.Operator)
	}
}

func TestProcessInvoiceStopsAtCompletion(t *testing.T) {
	hook, store, _, client := buildHook(t)

	card, err := store.CreateCard(client.ID, "")
	require.NoError(t, err)
	require.NoError(t, store.db.Model(&models.LoyaltyCard{}).Where("id = ?", card.ID).Update("stamps", 9).Error)

	inv := &models.Invoice{
		Number:   "F-20250101-00002",
		ClientID: uintPtr(client.ID),
		Employee: "Marta",
		Items:    []models.InvoiceItem{serviceLine(1, 3, false)},
	}

	notices := hook.ProcessInvoice(inv)

	stored := reloadCard(t, store.db, card.ID)
	assert.Equal(t, 10, stored.Stamps)
	assert.Equal(t, models.CardStateCompleted, stored.State)

	// surplus units are discarded, only the completing stamp is logged
	assert.EqualValues(t, 1, historyCount(t, store.db, card.ID))

	require.Len(t, notices, 1)
	assert.Equal(t, NoticeCompleted, notices[0].Type)
}

func TestProcessInvoiceWithoutCard(t *testing.T) {
	hook, _, _, client := buildHook(t)

	inv := &models.Invoice{
		Number:   "F-20250101-00003",
		ClientID: uintPtr(client.ID),
		Employee: "Marta",
		Items:    []models.InvoiceItem{serviceLine(1, 2, false)},
	}

	assert.Nil(t, hook.ProcessInvoice(inv), "no card means no stamping and no notices")
}

func TestProcessInvoiceWithoutClient(t *testing.T) {
	hook, _, _, _ := buildHook(t)

	inv := &models.Invoice{
		Number:   "F-20250101-00004",
		Employee: "Marta",
		Items:    []models.InvoiceItem{serviceLine(1, 2, false)},
	}

	assert.Nil(t, hook.ProcessInvoice(inv))
}

func TestProcessInvoiceProductLinesEarnNothing(t *testing.T) {
	hook, store, _, client := buildHook(t)

	card, err := store.CreateCard(client.ID, "")
	require.NoError(t, err)

	inv := &models.Invoice{
		Number:   "F-20250101-00005",
		ClientID: uintPtr(client.ID),
		Employee: "Marta",
		Items:    []models.InvoiceItem{productLine(1, 3)},
	}

	notices := hook.ProcessInvoice(inv)
	assert.Nil(t, notices)

	stored := reloadCard(t, store.db, card.ID)
	assert.Equal(t, 0, stored.Stamps)
}

func TestProcessInvoiceOnCompletedCard(t *testing.T) {
	hook, store, engine, client := buildHook(t)

	card, err := store.CreateCard(client.ID, "")
	require.NoError(t, err)
	require.NoError(t, store.db.Model(&models.LoyaltyCard{}).Where("id = ?", card.ID).Update("stamps", 9).Error)
	_, err = engine.AddStamp(card.ID, models.StampKindManual, "Marta", "", "")
	require.NoError(t, err)

	inv := &models.Invoice{
		Number:   "F-20250101-00006",
		ClientID: uintPtr(client.ID),
		Employee: "Marta",
		Items:    []models.InvoiceItem{serviceLine(1, 1, false)},
	}

	notices := hook.ProcessInvoice(inv)
	assert.Nil(t, notices)

	stored := reloadCard(t, store.db, card.ID)
	assert.Equal(t, 10, stored.Stamps)
}
