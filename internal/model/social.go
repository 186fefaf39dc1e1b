package model

import "time"

type CommentID string

type Comment struct {
	ID       CommentID `json:"id"`
	RecipeID RecipeID  `json:"recipe_id"`
	Author   UserID    `json:"author_id"`
	Body     string    `json:"body"`

	CreatedDate time.Time `json:"created_at"`
}

type NotificationID string

type NotificationKind string

const (
	NotificationComment NotificationKind = "comment"
	NotificationSystem  NotificationKind = "system"
)

type Notification struct {
	ID        NotificationID   `json:"id"`
	Recipient UserID           `json:"-"`
	Kind      NotificationKind `json:"kind"`

	// RecipeID and Actor are set for comment notifications.
	RecipeID RecipeID `json:"recipe_id,omitempty"`
	Actor    UserID   `json:"actor_id,omitempty"`

	Body string `json:"body"`
	Read bool   `json:"read"`

	CreatedDate time.Time `json:"created_at"`
}

// SponsoredSlot is a paid placement interleaved into the feed while its
// window [StartsAt, EndsAt) is active.
type SponsoredSlot struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url,omitempty"`
	TargetURL string `json:"target_url"`

	StartsAt time.Time `json:"-"`
	EndsAt   time.Time `json:"-"`
}

func (s *SponsoredSlot) ActiveAt(t time.Time) bool {
	return !t.Before(s.StartsAt) && t.Before(s.EndsAt)
}

type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`

	CreatedDate time.Time `json:"created_at"`
}
