package models

import "time"

// DayWindow is a resource's working window for one weekday, expressed as
// timezone-naive minutes from local midnight (e.g., 540 for 9:00 AM).
// EndMin <= StartMin means the resource is off that day.
type DayWindow struct {
	Weekday  time.Weekday `bson:"weekday" json:"weekday"`
	StartMin int          `bson:"startMin" json:"startMin"`
	EndMin   int          `bson:"endMin" json:"endMin"`
}

// Resource is the bookable entity whose time is reserved: a stylist's chair
// or a vehicle/driver, depending on the tenant's vertical.
type Resource struct {
	ID         string      `bson:"id" json:"id"`
	TenantID   string      `bson:"tenantId" json:"tenantId"`
	Name       string      `bson:"name" json:"name"`
	Title      string      `bson:"title,omitempty" json:"title,omitempty"` // e.g., "Senior Stylist"
	ServiceIDs []string    `bson:"serviceIds" json:"serviceIds"`           // services this resource can deliver
	Hours      []DayWindow `bson:"hours" json:"hours"`
	Active     bool        `bson:"active" json:"active"`
}

// WindowFor returns the working window for the given weekday. The second
// return is false when no window is configured for that day.
func (r *Resource) WindowFor(day time.Weekday) (DayWindow, bool) {
	for _, w := range r.Hours {
		if w.Weekday == day {
			return w, true
		}
	}
	return DayWindow{}, false
}

// Offers reports whether the resource can deliver the given service.
func (r *Resource) Offers(serviceID string) bool {
	for _, id := range r.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}
