package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReactType is a typed endorsement a user attaches to a post.
type ReactType string

const (
	ReactLike  ReactType = "like"
	ReactLove  ReactType = "love"
	ReactHaha  ReactType = "haha"
	ReactWow   ReactType = "wow"
	ReactSad   ReactType = "sad"
	ReactAngry ReactType = "angry"
)

// ValidReactType reports whether t belongs to the closed reaction set.
func ValidReactType(t ReactType) bool {
	switch t {
	case ReactLike, ReactLove, ReactHaha, ReactWow, ReactSad, ReactAngry:
		return true
	}
	return false
}

// Reaction records a single user's reaction on a post. At most one per
// (post, user); a new reaction replaces the previous one.
type Reaction struct {
	User primitive.ObjectID `json:"user" bson:"user"`
	Type ReactType          `json:"type" bson:"type"`
}

// ByUser is the denormalized author snapshot cached on every post so the
// feed can render without joining the users collection.
type ByUser struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	Username string             `json:"username" bson:"username"`
	FullName string             `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Avatar   string             `json:"avatar,omitempty" bson:"avatar,omitempty"`
}

// Post represents a post stored in MongoDB. A post whose Of field points at
// another post is a comment on that post.
type Post struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Type        string               `json:"type,omitempty" bson:"type,omitempty"`
	Text        string               `json:"text,omitempty" bson:"text,omitempty"`
	TextVi      string               `json:"textVi,omitempty" bson:"textVi,omitempty"`
	TextEn      string               `json:"textEn,omitempty" bson:"textEn,omitempty"`
	Audio       string               `json:"audio,omitempty" bson:"audio,omitempty"`
	Photos      []string             `json:"photos,omitempty" bson:"photos,omitempty"`
	Videos      []string             `json:"videos,omitempty" bson:"videos,omitempty"`
	Tags        []string             `json:"tags,omitempty" bson:"tags,omitempty"`
	Categories  []primitive.ObjectID `json:"categories,omitempty" bson:"categories,omitempty"`
	CreatedBy   primitive.ObjectID   `json:"createdBy" bson:"createdBy"`
	ByUser      ByUser               `json:"byUser" bson:"byUser"`
	Of          *primitive.ObjectID  `json:"of,omitempty" bson:"of,omitempty"`
	Reacts      []Reaction           `json:"reacts" bson:"reacts"`
	ReactsCount map[ReactType]int    `json:"reactsCount" bson:"-"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// CountReacts fills ReactsCount from the per-user reaction records.
func (p *Post) CountReacts() {
	counts := make(map[ReactType]int, len(p.Reacts))
	for _, r := range p.Reacts {
		counts[r.Type]++
	}
	p.ReactsCount = counts
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Type       string   `json:"type" validate:"omitempty,max=50"`
	Text       string   `json:"text" validate:"omitempty,max=10000"`
	TextVi     string   `json:"textVi" validate:"omitempty,max=10000"`
	TextEn     string   `json:"textEn" validate:"omitempty,max=10000"`
	Audio      string   `json:"audio" validate:"omitempty,max=2048"`
	Photos     []string `json:"photos" validate:"omitempty,dive,max=2048"`
	Videos     []string `json:"videos" validate:"omitempty,dive,max=2048"`
	Tags       []string `json:"tags" validate:"omitempty,dive,max=100"`
	Categories []string `json:"categories"`
	Of         string   `json:"of"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Type       string   `json:"type" validate:"omitempty,max=50"`
	Text       string   `json:"text" validate:"omitempty,max=10000"`
	TextVi     string   `json:"textVi" validate:"omitempty,max=10000"`
	TextEn     string   `json:"textEn" validate:"omitempty,max=10000"`
	Audio      string   `json:"audio" validate:"omitempty,max=2048"`
	Photos     []string `json:"photos" validate:"omitempty,dive,max=2048"`
	Videos     []string `json:"videos" validate:"omitempty,dive,max=2048"`
	Tags       []string `json:"tags" validate:"omitempty,dive,max=100"`
	Categories []string `json:"categories"`
}
