package domain

import "time"

type ItemStatus string

const (
	ItemStatusAvailable   ItemStatus = "available"
	ItemStatusUnavailable ItemStatus = "unavailable"
	ItemStatusRequested   ItemStatus = "requested"
	ItemStatusBorrowed    ItemStatus = "borrowed"
	ItemStatusLent        ItemStatus = "lent"
	ItemStatusReturned    ItemStatus = "returned"
)

type Item struct {
	ID          int32      `json:"id"`
	OwnerID     int32      `json:"owner_id"`
	Owner       *User      `json:"owner,omitempty"` // populated when fetching item details
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Price       float64    `json:"price"` // weekly rate
	Images      []string   `json:"images"`
	ZipCode     string     `json:"zip_code"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Status      ItemStatus `json:"status"`
	CreatedOn   time.Time  `json:"created_on"`
}
