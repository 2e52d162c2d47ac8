package domain

import "time"

// Event is a schedulable activity users can register for.
type Event struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Date            time.Time `json:"date"`
	Location        string    `json:"location"`
	MaxParticipants int       `json:"maxParticipants"`
	CreatedBy       string    `json:"createdBy,omitempty"`
}

// EventPage is one page of a server-paginated event listing.
type EventPage struct {
	Items      []Event `json:"events"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
}

// Member is a user registered for an event.
type Member struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
