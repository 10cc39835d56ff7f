package entities

import (
	"github.com/google/uuid"
	"time"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  string    `json:"-"`
	Role      string    `json:"role"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID" json:"recipes,omitempty"`
	Timestamp
}

// Subscription links a follower to an author. A user cannot follow
// themselves; the composite unique index is the authoritative guard
// against duplicate follows under concurrent requests.
type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FollowerID uuid.UUID `gorm:"uniqueIndex:idx_subscriptions_follower_author" json:"follower_id"`
	AuthorID   uuid.UUID `gorm:"uniqueIndex:idx_subscriptions_follower_author" json:"author_id"`
	CreatedAt  time.Time `gorm:"type:timestamp" json:"created_at"`

	Follower *User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Author   *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
