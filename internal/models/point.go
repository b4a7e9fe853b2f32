package models

import "time"

// PointTransaction is one row of the points ledger. Points is signed:
// positive rows are referral grants, negative rows record redemptions.
// Expired grants are excluded from balance sums but never deleted.
//
// Redemption rows carry their own forward expiry even though an expiry on a
// debit has no driving semantics; the stored field is kept for compatibility
// and nothing reads it on negative rows.
type PointTransaction struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Points    int       `json:"points" db:"points"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsExpiredAt returns true if the entry no longer counts toward the balance
func (pt *PointTransaction) IsExpiredAt(t time.Time) bool {
	return !pt.ExpiresAt.After(t)
}

// ValidPointBalance sums the entries that have not expired at the given time
func ValidPointBalance(entries []*PointTransaction, now time.Time) int {
	balance := 0
	for _, entry := range entries {
		if !entry.IsExpiredAt(now) {
			balance += entry.Points
		}
	}
	return balance
}
