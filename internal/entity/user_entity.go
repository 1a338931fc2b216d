// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the slice of the account record the subscription engine needs:
// identity for ownership checks and contact details for the notifier.
// Registration, authentication and profile editing live elsewhere.
type User struct {
	Id        uuid.UUID
	Email     string
	FullName  string
	Role      string // "user" or "admin"
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
