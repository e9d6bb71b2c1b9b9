package domain

import "time"

// Product is a row from the products table. Records are written only by
// the external ingestion pipeline; this service reads them. The three
// embedding columns never leave the database — ranked queries compare
// against them server-side and return a similarity instead.
type Product struct {
	ASIN        string
	Title       string
	Description *string
	Brand       *string
	Category    []string
	Price       float64
	ImageURL    *string
	Rating      float64
	ReviewCount int
	CreatedAt   *time.Time
	UpdatedAt   *time.Time
}
