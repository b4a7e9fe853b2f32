package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedPointUser inserts a user with a zero cached points balance
func seedPointUser(t *testing.T, db *sql.DB) int {
	t.Helper()

	var userID int
	err := db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role, referral_code, points, created_at, updated_at)
		VALUES ($1, 'x', 'Pointer', 'CUSTOMER', $2, 0, NOW(), NOW())
		RETURNING id`,
		uuid.New().String()+"@test.local", uuid.New().String()[:6],
	).Scan(&userID)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return userID
}

func cachedPoints(t *testing.T, db *sql.DB, userID int) int {
	t.Helper()

	var points int
	err := db.QueryRow(`SELECT points FROM users WHERE id = $1`, userID).Scan(&points)
	if err != nil {
		t.Fatalf("failed to read cached points: %v", err)
	}

	return points
}

func TestPointRepository_GrantAndRedeem(t *testing.T) {
	db := setupSettlementTestDB(t)
	repo := NewPointRepository(db)

	t.Run("grant increments cached balance and writes ledger entry", func(t *testing.T) {
		userID := seedPointUser(t, db)

		entry, err := repo.Grant(userID, 10000, time.Now().AddDate(0, 3, 0))
		require.NoError(t, err)
		assert.Equal(t, userID, entry.UserID)
		assert.Equal(t, 10000, entry.Points)
		assert.Equal(t, 10000, cachedPoints(t, db, userID))
	})

	t.Run("redeem decrements cached balance and writes negative entry", func(t *testing.T) {
		userID := seedPointUser(t, db)

		_, err := repo.Grant(userID, 10000, time.Now().AddDate(0, 3, 0))
		require.NoError(t, err)

		entry, err := repo.Redeem(userID, 4000, time.Now().AddDate(0, 3, 0))
		require.NoError(t, err)
		assert.Equal(t, -4000, entry.Points)
		assert.Equal(t, 6000, cachedPoints(t, db, userID))
	})

	t.Run("list returns entries oldest first", func(t *testing.T) {
		userID := seedPointUser(t, db)

		_, err := repo.Grant(userID, 10000, time.Now().AddDate(0, 3, 0))
		require.NoError(t, err)
		_, err = repo.Redeem(userID, 2500, time.Now().AddDate(0, 3, 0))
		require.NoError(t, err)

		entries, err := repo.ListByUser(userID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 10000, entries[0].Points)
		assert.Equal(t, -2500, entries[1].Points)
	})
}

func TestPointRepository_ReconcileCachedBalance(t *testing.T) {
	db := setupSettlementTestDB(t)
	repo := NewPointRepository(db)

	userID := seedPointUser(t, db)

	_, err := repo.Grant(userID, 10000, time.Now().AddDate(0, 3, 0))
	require.NoError(t, err)

	// Expired grant still sits in the ledger but must not count
	_, err = repo.Grant(userID, 5000, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	balance, err := repo.ReconcileCachedBalance(userID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 10000, balance)
	assert.Equal(t, 10000, cachedPoints(t, db, userID))
}
