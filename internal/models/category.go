package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups posts. Only admins create, update or remove categories.
type Category struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Tags      []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	CreatedBy primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

type CreateCategoryRequest struct {
	Name string   `json:"name" validate:"required,min=1,max=100"`
	Tags []string `json:"tags" validate:"omitempty,dive,max=100"`
}

type UpdateCategoryRequest struct {
	Name string   `json:"name" validate:"omitempty,min=1,max=100"`
	Tags []string `json:"tags" validate:"omitempty,dive,max=100"`
}
