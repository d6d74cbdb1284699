package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Conference is the denormalized row for one conference aggregate.
type Conference struct {
	bun.BaseModel `bun:"table:conferences"`

	ID            string    `bun:"id,pk" json:"id"`
	AccessCode    string    `bun:"access_code" json:"access_code"`
	OwnerName     string    `bun:"owner_name" json:"owner_name"`
	OwnerEmail    string    `bun:"owner_email" json:"owner_email"`
	Slug          string    `bun:"slug" json:"slug"`
	Name          string    `bun:"name" json:"name"`
	Description   string    `bun:"description" json:"description"`
	Location      string    `bun:"location" json:"location"`
	Tagline       string    `bun:"tagline" json:"tagline"`
	TwitterSearch string    `bun:"twitter_search" json:"twitter_search"`
	StartDate     time.Time `bun:"start_date" json:"start_date"`
	EndDate       time.Time `bun:"end_date" json:"end_date"`
	IsPublished   bool      `bun:"is_published,notnull" json:"is_published"`
}
