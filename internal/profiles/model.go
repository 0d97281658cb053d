package profiles

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	// ErrProfileNotFound indicates no profile exists for the slug or key.
	ErrProfileNotFound = errors.New("profiles: profile not found")
	// ErrSlugTaken indicates another profile already owns the requested slug.
	ErrSlugTaken = errors.New("profiles: slug already taken")
	// ErrInvalidSlug indicates a requested slug with no usable characters.
	ErrInvalidSlug = errors.New("profiles: invalid slug")
	// ErrAlreadyLiked indicates the actor already liked this profile.
	ErrAlreadyLiked = errors.New("profiles: profile already liked")
	// ErrInvalidActor indicates a missing actor key.
	ErrInvalidActor = errors.New("profiles: invalid actor key")
)

// Profile maps one actor key to a public-facing named page. Created lazily on
// the owner's first profile visit, mutated only by its owner, never
// hard-deleted. The raw actor key stays server-side; public reads go through
// PublicProfile.
type Profile struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ActorKey    string    `gorm:"column:actor_key;size:220;not null;uniqueIndex:idx_profiles_actor"`
	Slug        string    `gorm:"column:slug;size:190;not null;uniqueIndex:idx_profiles_slug"`
	DisplayName string    `gorm:"column:display_name;size:190"`
	Bio         string    `gorm:"column:bio;type:text"`
	TagsJSON    string    `gorm:"column:tags_json;type:text;not null;default:'[]'"`
	AvatarURL   string    `gorm:"column:avatar_url;size:512"`
	LikeCount   int64     `gorm:"column:like_count;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Profile) TableName() string {
	return "profiles"
}

// Tags decodes the stored tag list.
func (p Profile) Tags() []string {
	var tags []string
	if err := json.Unmarshal([]byte(p.TagsJSON), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

// ProfileLike records that one actor liked one profile, at most once. The
// composite unique index makes the like server-side at-most-once, matching
// the strictness of the place-rating guard.
type ProfileLike struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ProfileID uint      `gorm:"column:profile_id;not null;uniqueIndex:idx_profile_likes_pair,priority:1"`
	ActorKey  string    `gorm:"column:actor_key;size:220;not null;uniqueIndex:idx_profile_likes_pair,priority:2"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (ProfileLike) TableName() string {
	return "profile_likes"
}

// PublicProfile is the externally visible projection of a Profile.
type PublicProfile struct {
	Slug        string   `json:"slug"`
	DisplayName string   `json:"display_name"`
	Bio         string   `json:"bio"`
	Tags        []string `json:"tags"`
	AvatarURL   string   `json:"avatar_url"`
	LikeCount   int64    `json:"like_count"`
}

// Public projects the profile for external consumption, omitting the actor key.
func (p Profile) Public() PublicProfile {
	return PublicProfile{
		Slug:        p.Slug,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		Tags:        p.Tags(),
		AvatarURL:   p.AvatarURL,
		LikeCount:   p.LikeCount,
	}
}

// UpdateFields carries an owner's profile mutation; nil fields are untouched.
type UpdateFields struct {
	DisplayName *string
	Bio         *string
	Tags        []string
	AvatarURL   *string
	Slug        *string
}
