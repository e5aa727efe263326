package loyalty

import (
	"fmt"
	"testing"

	"barba-negra-app/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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
	return db
}

func createClient(t *testing.T, db *gorm.DB, name, document string) models.Client {
	t.Helper()
	client := models.Client{Name: name, Document: document}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func createCardWithStamps(t *testing.T, db *gorm.DB, clientID uint, stamps int) models.LoyaltyCard {
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

func historyCount(t *testing.T, db *gorm.DB, cardID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.StampEvent{}).Where("card_id = ?", cardID).Count(&count).Error)
	return count
}

func reloadCard(t *testing.T, db *gorm.DB, cardID uint) models.LoyaltyCard {
	t.Helper()
	var card models.LoyaltyCard
	require.NoError(t, db.First(&card, cardID).Error)
	return card
}
