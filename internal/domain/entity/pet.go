package entity

import "time"

// Pet and User are read-only projections of the relational records this
// subsystem consults for owner lookups. CRUD on them lives elsewhere.
type Pet struct {
	ID     int
	UserID int
	Name   string
}

type User struct {
	ID    int
	Name  string
	Email string
	Phone string
}

// EmergencyContact is a person to reach on severe alerts, ordered by
// priority. Inactive contacts are skipped by quick-action generation.
type EmergencyContact struct {
	ID          int
	UserID      int
	ContactType string
	Name        string
	Phone       string
	Email       string
	Address     string
	Notes       string
	Priority    int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
