package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"barba-negra-app/internal/loyalty"
	"barba-negra-app/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupLoyaltyRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Client{},
		&models.LoyaltyCard{},
		&models.StampEvent{},
	))

	store := loyalty.NewStore(db, "TF")
	engine := loyalty.NewEngine(db, 10)
	h := NewLoyaltyHandler(store, engine)

	r := gin.New()
	cards := r.Group("/tarjetas-fidelidad")
	{
		cards.GET("", h.ListCards)
		cards.POST("", h.CreateCard)
		cards.GET("/cliente/:clienteId", h.CardByClient)
		cards.POST("/:id/sello", h.AddStamp)
		cards.POST("/:id/quitar-sello", h.RemoveStamp)
		cards.GET("/:id/historial", h.History)
		cards.DELETE("/:id", h.DeleteCard)
	}
	return r, db
}

func seedClient(t *testing.T, db *gorm.DB) models.Client {
	t.Helper()
	client := models.Client{Name: "Ana", Document: "22222222B"}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func seedCard(t *testing.T, db *gorm.DB, clientID uint, stamps int) models.LoyaltyCard {
	t.Helper()
	card := models.LoyaltyCard{
		Code:     fmt.Sprintf("TF-TEST-%d", clientID),
		ClientID: clientID,
		Stamps:   stamps,
		State:    models.CardStateActive,
	}
	require.NoError(t, db.Create(&card).Error)
	return card
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateCardEndpoint(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)

	w := doJSON(t, r, http.MethodPost, "/tarjetas-fidelidad", gin.H{"clienteId": client.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "active", body["estado"])
	assert.EqualValues(t, 0, body["sellos"])

	// second active card for the same client is rejected
	w = doJSON(t, r, http.MethodPost, "/tarjetas-fidelidad", gin.H{"clienteId": client.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCardEndpointUnknownClient(t *testing.T) {
	r, _ := setupLoyaltyRouter(t)

	w := doJSON(t, r, http.MethodPost, "/tarjetas-fidelidad", gin.H{"clienteId": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCardEndpointDuplicateCode(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	ana := seedClient(t, db)
	luis := models.Client{Name: "Luis", Document: "33333333C"}
	require.NoError(t, db.Create(&luis).Error)

	w := doJSON(t, r, http.MethodPost, "/tarjetas-fidelidad", gin.H{"clienteId": ana.ID, "codigoManual": "VIP-001"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/tarjetas-fidelidad", gin.H{"clienteId": luis.ID, "codigoManual": "VIP-001"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddStampEndpoint(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)
	card := seedCard(t, db, client.ID, 0)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/tarjetas-fidelidad/%d/sello", card.ID), gin.H{"empleado": "Marta"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["mensaje"])
	assert.EqualValues(t, 1, body["sellos_actuales"])
	assert.EqualValues(t, 9, body["sellos_restantes"])
	_, hasFree := body["proximo_gratis"]
	assert.False(t, hasFree)
}

func TestAddStampEndpointNextFree(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)
	card := seedCard(t, db, client.ID, 8)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/tarjetas-fidelidad/%d/sello", card.ID), gin.H{"empleado": "Marta"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 9, body["sellos_actuales"])
	assert.Equal(t, true, body["proximo_gratis"])
}

func TestAddStampEndpointCompletes(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)
	card := seedCard(t, db, client.ID, 9)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/tarjetas-fidelidad/%d/sello", card.ID), gin.H{"empleado": "Marta", "observaciones": "corte"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["tarjeta_completada"])
	assert.EqualValues(t, 10, body["sellos_actuales"])

	// stamping again is a soft no-op, still 200
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/tarjetas-fidelidad/%d/sello", card.ID), gin.H{"empleado": "Marta"})
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, true, body["tarjeta_completada"])
}

func TestAddStampEndpointUnknownCard(t *testing.T) {
	r, _ := setupLoyaltyRouter(t)

	w := doJSON(t, r, http.MethodPost, "/tarjetas-fidelidad/999/sello", gin.H{"empleado": "Marta"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddStampEndpointMissingEmployee(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)
	card := seedCard(t, db, client.ID, 0)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/tarjetas-fidelidad/%d/sello", card.ID), gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveStampEndpointAtZero(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)
	card := seedCard(t, db, client.ID, 0)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/tarjetas-fidelidad/%d/quitar-sello", card.ID), gin.H{"empleado": "Marta"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveStampEndpoint(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)
	card := seedCard(t, db, client.ID, 3)

	w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/tarjetas-fidelidad/%d/quitar-sello", card.ID), gin.H{"empleado": "Marta"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["sellos_actuales"])
}

func TestCardByClientEndpoint(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)

	// no card yet: JSON null
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/tarjetas-fidelidad/cliente/%d", client.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	card := seedCard(t, db, client.ID, 2)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/tarjetas-fidelidad/cliente/%d", client.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, card.ID, body["id"])
	assert.EqualValues(t, 2, body["sellos"])
}

func TestHistoryEndpoint(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)
	card := seedCard(t, db, client.ID, 0)

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodPost, fmt.Sprintf("/tarjetas-fidelidad/%d/sello", card.ID), gin.H{"empleado": "Marta"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/tarjetas-fidelidad/%d/historial", card.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var events []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Len(t, events, 2)
}

func TestDeleteCardEndpoint(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)
	card := seedCard(t, db, client.ID, 0)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/tarjetas-fidelidad/%d", card.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/tarjetas-fidelidad/%d", card.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCardsEndpoint(t *testing.T) {
	r, db := setupLoyaltyRouter(t)
	client := seedClient(t, db)
	seedCard(t, db, client.ID, 4)

	w := doJSON(t, r, http.MethodGet, "/tarjetas-fidelidad", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cards []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	clientField, ok := cards[0]["cliente"].(map[string]interface{})
	require.True(t, ok, "cards must embed client display fields")
	assert.Equal(t, "Ana", clientField["nombre"])
}
