package model

import (
	"time"

	"github.com/google/uuid"
)

// Owner identifies who created a link. Owners are random 128-bit values;
// knowing one is the only credential the service has.
type Owner = uuid.UUID

// Link represents a shortened URL mapping
type Link struct {
	Slug      string     // unique short identifier
	Target    string     // original absolute URL
	Owner     Owner      // creator; only it may delete the link
	Limit     ClickLimit // maximum clicks, fixed at creation
	Remaining ClickLimit // clicks left; mirrors Limit, decremented per consumption
	CreatedAt time.Time
	ExpiresAt time.Time // CreatedAt + configured TTL
}

// ExpiredAt reports whether the link's TTL has elapsed at time t.
func (l *Link) ExpiredAt(t time.Time) bool {
	return t.After(l.ExpiresAt)
}

// Notification is a system-generated message queued in an owner's mailbox.
type Notification struct {
	CreatedAt time.Time
	Message   string
}
