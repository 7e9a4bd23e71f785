package auth

import (
	"testing"
	"time"

	"github.com/aethra/atlas/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:auth_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Role{}, &models.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestSessions(db *gorm.DB, ttlHours int) *SessionService {
	return NewSessionService(db, ttlHours, NewAuxTokenService("test-secret"))
}

func TestSessionRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	sessions := newTestSessions(db, 1)
	user := seedUser(t, db, "s1@example.com")

	created, err := sessions.Create(user)
	require.NoError(t, err)
	assert.NotEmpty(t, created.Token)
	assert.NotEmpty(t, created.CSRFToken)
	assert.NotEmpty(t, created.AuxToken)
	assert.NotEqual(t, created.Token, created.CSRFToken)

	got, err := sessions.Get(created.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	require.NotNil(t, got.User)
	assert.Equal(t, "s1@example.com", got.User.Email)
}

func TestSessionGetEmptyToken(t *testing.T) {
	db := setupTestDB(t)
	sessions := newTestSessions(db, 1)

	_, err := sessions.Get("")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestExpiredSessionIsDeletedOnRead(t *testing.T) {
	db := setupTestDB(t)
	sessions := newTestSessions(db, 1)
	user := seedUser(t, db, "s2@example.com")

	created, err := sessions.Create(user)
	require.NoError(t, err)

	// push the expiry into the past
	require.NoError(t, db.Model(created).Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = sessions.Get(created.Token)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDeleteExpiredSweep(t *testing.T) {
	db := setupTestDB(t)
	sessions := newTestSessions(db, 1)
	user := seedUser(t, db, "s3@example.com")

	fresh, err := sessions.Create(user)
	require.NoError(t, err)
	stale, err := sessions.Create(user)
	require.NoError(t, err)
	require.NoError(t, db.Model(stale).Update("expires_at", time.Now().Add(-time.Hour)).Error)

	require.NoError(t, sessions.DeleteExpired())

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = sessions.Get(fresh.Token)
	assert.NoError(t, err)
}

func TestAuxTokenRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db, "s4@example.com")

	service := NewAuxTokenService("test-secret")
	token, err := service.Mint(user)
	require.NoError(t, err)

	claims, err := service.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)

	_, err = NewAuxTokenService("other-secret").Parse(token)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", hash)
	assert.True(t, CheckPassword("supersecret", hash))
	assert.False(t, CheckPassword("wrong", hash))
}
