package models

import "time"

// Tenant is an isolated shop on the platform. Every other document carries a
// tenant id and no query may cross tenants.
type Tenant struct {
	ID              string    `bson:"id" json:"id"`
	Slug            string    `bson:"slug" json:"slug"`                       // URL-safe shop handle, unique
	APIKey          string    `bson:"apiKey" json:"-"`                        // opaque key presented by callers, unique
	Name            string    `bson:"name" json:"name"`
	SlotStepMinutes int       `bson:"slotStepMinutes" json:"slotStepMinutes"` // candidate-start granularity; 0 means platform default
	HoldTTLSeconds  int       `bson:"holdTtlSeconds" json:"holdTtlSeconds"`   // hold lifetime; 0 means platform default
	Active          bool      `bson:"active" json:"active"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`
}

// StepMinutes returns the tenant's slot step, falling back to def.
func (t *Tenant) StepMinutes(def int) int {
	if t.SlotStepMinutes > 0 {
		return t.SlotStepMinutes
	}
	return def
}

// HoldTTL returns the tenant's hold lifetime, falling back to def.
func (t *Tenant) HoldTTL(def time.Duration) time.Duration {
	if t.HoldTTLSeconds > 0 {
		return time.Duration(t.HoldTTLSeconds) * time.Second
	}
	return def
}
