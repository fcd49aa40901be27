package entities

import "time"

// Candidate is a read-only projection of the candidate directory; the
// engine never writes candidates, it only resolves them by id.
type Candidate struct {
	ID        int `gorm:"primaryKey"`
	FirstName string
	LastName  string
	Email     string
	Zone      string
	CreatedAt time.Time
}
