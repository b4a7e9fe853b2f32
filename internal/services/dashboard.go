package services

import (
	"database/sql"
	"fmt"
	"time"

	"tickethub/internal/models"
)

// DashboardService builds the per-organizer views: events with attendance and
// transaction counts, recent registrations, recent transactions and revenue
// statistics. Reads go straight to the database; the dashboard mutates
// nothing.
type DashboardService struct {
	db *sql.DB
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *sql.DB) *DashboardService {
	return &DashboardService{db: db}
}

// DashboardEvent is one event row on the organizer dashboard
type DashboardEvent struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	Date             time.Time `json:"date"`
	Location         string    `json:"location"`
	Capacity         int       `json:"capacity"`
	IsFreeEvent      bool      `json:"is_free_event"`
	AttendeeCount    int       `json:"attendee_count"`
	TransactionCount int       `json:"transaction_count"`
	Revenue          int       `json:"revenue"`
}

// DashboardRegistration is one row of the recent-registrations feed
type DashboardRegistration struct {
	RegistrationID   int       `json:"registrationId"`
	EventID          int       `json:"eventId"`
	EventName        string    `json:"eventName"`
	EventDate        time.Time `json:"eventDate"`
	EventLocation    string    `json:"eventLocation"`
	AttendeeID       int       `json:"attendeeId"`
	AttendeeName     string    `json:"attendeeName"`
	AttendeeEmail    string    `json:"attendeeEmail"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// DashboardTransaction is one row of the recent-transactions feed
type DashboardTransaction struct {
	TransactionID   int                      `json:"transactionId"`
	Reference       string                   `json:"reference"`
	EventID         int                      `json:"eventId"`
	EventName       string                   `json:"eventName"`
	UserName        string                   `json:"userName"`
	UserEmail       string                   `json:"userEmail"`
	Amount          int                      `json:"amount"`
	DiscountApplied int                      `json:"discountApplied"`
	FinalAmount     int                      `json:"finalAmount"`
	Status          models.TransactionStatus `json:"status"`
	CreatedAt       time.Time                `json:"createdAt"`
}

// MonthlyRevenue is one month's aggregated revenue
type MonthlyRevenue struct {
	Month        string `json:"month"`
	Year         int    `json:"year"`
	Revenue      int    `json:"revenue"`
	Transactions int    `json:"transactions"`
}

// RevenueStats is the organizer's revenue overview
type RevenueStats struct {
	TotalRevenue      int               `json:"totalRevenue"`
	TotalTransactions int               `json:"totalTransactions"`
	TotalAttendees    int               `json:"totalAttendees"`
	RevenueByMonth    []*MonthlyRevenue `json:"revenueByMonth"`
}

const recentFeedLimit = 50

// GetOrganizerEvents returns the organizer's events with attendee and
// transaction counts and completed revenue per event.
func (s *DashboardService) GetOrganizerEvents(organizerID int) ([]*DashboardEvent, error) {
	query := `
		SELECT e.id, e.name, e.date, e.location, e.capacity, e.is_free_event,
		       COUNT(DISTINCT a.id),
		       COUNT(DISTINCT tr.id),
		       COALESCE(SUM(CASE WHEN tr.status = 'COMPLETED' THEN tr.final_amount END), 0)
		FROM events e
		LEFT JOIN event_attendees a ON a.event_id = e.id
		LEFT JOIN transactions tr ON tr.event_id = e.id
		WHERE e.organizer_id = $1
		GROUP BY e.id
		ORDER BY e.date DESC`

	rows, err := s.db.Query(query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizer events: %w", err)
	}
	defer rows.Close()

	var events []*DashboardEvent
	for rows.Next() {
		event := &DashboardEvent{}
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Date,
			&event.Location,
			&event.Capacity,
			&event.IsFreeEvent,
			&event.AttendeeCount,
			&event.TransactionCount,
			&event.Revenue,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dashboard event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// GetRecentRegistrations returns the latest attendee registrations across the
// organizer's events, newest first.
func (s *DashboardService) GetRecentRegistrations(organizerID int) ([]*DashboardRegistration, error) {
	query := `
		SELECT a.id, a.event_id, e.name, e.date, e.location, a.attendee_id, u.name, u.email, a.created_at
		FROM event_attendees a
		JOIN events e ON e.id = a.event_id
		JOIN users u ON u.id = a.attendee_id
		WHERE e.organizer_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2`

	rows, err := s.db.Query(query, organizerID, recentFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent registrations: %w", err)
	}
	defer rows.Close()

	var registrations []*DashboardRegistration
	for rows.Next() {
		registration := &DashboardRegistration{}
		err := rows.Scan(
			&registration.RegistrationID,
			&registration.EventID,
			&registration.EventName,
			&registration.EventDate,
			&registration.EventLocation,
			&registration.AttendeeID,
			&registration.AttendeeName,
			&registration.AttendeeEmail,
			&registration.RegistrationDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, registration)
	}

	return registrations, rows.Err()
}

// GetRecentTransactions returns the latest transactions across the
// organizer's events, newest first.
func (s *DashboardService) GetRecentTransactions(organizerID int) ([]*DashboardTransaction, error) {
	query := `
		SELECT tr.id, tr.reference, tr.event_id, e.name, u.name, u.email,
		       tr.amount, tr.discount_applied, tr.final_amount, tr.status, tr.created_at
		FROM transactions tr
		JOIN events e ON e.id = tr.event_id
		JOIN users u ON u.id = tr.user_id
		WHERE e.organizer_id = $1
		ORDER BY tr.created_at DESC
		LIMIT $2`

	rows, err := s.db.Query(query, organizerID, recentFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*DashboardTransaction
	for rows.Next() {
		transaction := &DashboardTransaction{}
		err := rows.Scan(
			&transaction.TransactionID,
			&transaction.Reference,
			&transaction.EventID,
			&transaction.EventName,
			&transaction.UserName,
			&transaction.UserEmail,
			&transaction.Amount,
			&transaction.DiscountApplied,
			&transaction.FinalAmount,
			&transaction.Status,
			&transaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}

// GetRevenueStats returns the organizer's revenue overview, including the
// last 12 months of monthly revenue.
func (s *DashboardService) GetRevenueStats(organizerID int) (*RevenueStats, error) {
	stats := &RevenueStats{}

	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN tr.status = 'COMPLETED' THEN tr.final_amount END), 0),
		       COUNT(tr.id),
		       (SELECT COUNT(*) FROM event_attendees a
		        JOIN events e2 ON e2.id = a.event_id
		        WHERE e2.organizer_id = $1)
		FROM transactions tr
		JOIN events e ON e.id = tr.event_id
		WHERE e.organizer_id = $1`, organizerID).Scan(
		&stats.TotalRevenue,
		&stats.TotalTransactions,
		&stats.TotalAttendees,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue totals: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT DATE_TRUNC('month', tr.created_at) as month,
		       COALESCE(SUM(CASE WHEN tr.status = 'COMPLETED' THEN tr.final_amount END), 0) as revenue,
		       COUNT(tr.id) as transactions
		FROM transactions tr
		JOIN events e ON e.id = tr.event_id
		WHERE e.organizer_id = $1
			AND tr.created_at >= DATE_TRUNC('month', CURRENT_DATE - INTERVAL '12 months')
		GROUP BY DATE_TRUNC('month', tr.created_at)
		ORDER BY month DESC`, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly revenue: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		data := &MonthlyRevenue{}
		var month time.Time
		if err := rows.Scan(&month, &data.Revenue, &data.Transactions); err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		data.Month = month.Format("January")
		data.Year = month.Year()
		stats.RevenueByMonth = append(stats.RevenueByMonth, data)
	}

	return stats, rows.Err()
}
