package models

import "time"

// TimeOff marks a resource unavailable for an absolute UTC interval,
// overriding the weekly working window.
type TimeOff struct {
	ID         string    `bson:"id" json:"id"`
	TenantID   string    `bson:"tenantId" json:"tenantId"`
	ResourceID string    `bson:"resourceId" json:"resourceId"`
	Start      time.Time `bson:"start" json:"start"`
	End        time.Time `bson:"end" json:"end"`
	Reason     string    `bson:"reason,omitempty" json:"reason,omitempty"`
}
