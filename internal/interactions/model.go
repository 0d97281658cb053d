package interactions

import (
	"errors"
	"time"
)

// DefaultAuthorLabel is used when a commenter leaves the name field blank.
const DefaultAuthorLabel = "Visitor"

const maxBodyLength = 4000

var (
	// ErrAlreadyRated indicates the actor already holds a rating for the place.
	ErrAlreadyRated = errors.New("interactions: place already rated")
	// ErrAlreadyCommented indicates the actor already holds a comment for the place.
	ErrAlreadyCommented = errors.New("interactions: place already commented")
	// ErrEmptyBody indicates a comment whose body is empty after trimming.
	ErrEmptyBody = errors.New("interactions: empty comment body")
	// ErrInvalidRating indicates a rating value outside 1..5.
	ErrInvalidRating = errors.New("interactions: rating value out of range")
	// ErrInvalidPlace indicates a missing place identifier.
	ErrInvalidPlace = errors.New("interactions: invalid place id")
	// ErrInvalidActor indicates a missing actor key.
	ErrInvalidActor = errors.New("interactions: invalid actor key")
	// ErrBodyTooLong indicates a comment body beyond storage bounds.
	ErrBodyTooLong = errors.New("interactions: comment body too long")
)

// Rating records one actor's score for one place. The composite unique index
// is the authoritative guard against two tabs racing the same submission:
// exactly one insert wins, the loser observes a duplicate-key violation.
type Rating struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	PlaceID   uint      `gorm:"column:place_id;not null;uniqueIndex:idx_ratings_place_actor,priority:1"`
	ActorKey  string    `gorm:"column:actor_key;size:220;not null;uniqueIndex:idx_ratings_place_actor,priority:2;index:idx_ratings_actor"`
	Value     int       `gorm:"column:value;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Rating) TableName() string {
	return "ratings"
}

// Comment records one actor's comment for one place, same one-per-pair
// invariant as Rating.
type Comment struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	PlaceID     uint      `gorm:"column:place_id;not null;uniqueIndex:idx_comments_place_actor,priority:1"`
	ActorKey    string    `gorm:"column:actor_key;size:220;not null;uniqueIndex:idx_comments_place_actor,priority:2;index:idx_comments_actor"`
	AuthorLabel string    `gorm:"column:author_label;size:190;not null"`
	Body        string    `gorm:"column:body;type:text;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Comment) TableName() string {
	return "comments"
}

// Favorite records that an actor bookmarked a place. Presence is the signal;
// there is no value column.
type Favorite struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	PlaceID   uint      `gorm:"column:place_id;not null;uniqueIndex:idx_favorites_place_actor,priority:1"`
	ActorKey  string    `gorm:"column:actor_key;size:220;not null;uniqueIndex:idx_favorites_place_actor,priority:2;index:idx_favorites_actor"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Favorite) TableName() string {
	return "favorites"
}
