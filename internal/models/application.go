package models

import (
	"time"
)

type ApplicationStatus string

const (
	StatusPending   ApplicationStatus = "pending"
	StatusContacted ApplicationStatus = "contacted"
	StatusAccepted  ApplicationStatus = "accepted"
	StatusRejected  ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusContacted, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type Application struct {
	ID             string            `json:"id" bson:"id"`
	UniversityID   string            `json:"university_id" bson:"university_id"`
	UniversityName string            `json:"university_name" bson:"university_name"`
	Name           string            `json:"name" bson:"name"`
	Email          string            `json:"email" bson:"email"`
	Phone          string            `json:"phone" bson:"phone"`
	CourseInterest string            `json:"course_interest" bson:"course_interest"`
	ShortNote      string            `json:"short_note" bson:"short_note"`
	Status         ApplicationStatus `json:"status" bson:"status"`
	CreatedAt      time.Time         `json:"created_at" bson:"created_at"`
}

type ApplicationCreate struct {
	UniversityID   string `json:"university_id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	CourseInterest string `json:"course_interest" validate:"required"`
	ShortNote      string `json:"short_note"`
}

type ApplicationStatusUpdate struct {
	Status ApplicationStatus `json:"status" validate:"required"`
}
