package models

// Service is a bookable catalog entry (e.g., "Haircut", "Airport transfer").
// Duration and price are snapshotted onto reservations at creation time, so
// later catalog edits never alter existing bookings.
type Service struct {
	ID              string `bson:"id" json:"id"`
	TenantID        string `bson:"tenantId" json:"tenantId"`
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"durationMinutes" json:"durationMinutes"`
	PriceCents      int    `bson:"priceCents" json:"priceCents"`
	Currency        string `bson:"currency" json:"currency"`
	Active          bool   `bson:"active" json:"active"`
}
