package models

import (
	"time"
)

type Category struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type CategoryCreate struct {
	Name string `json:"name" validate:"required"`
}
