package models

import (
	"time"
)

type Course struct {
	CourseName  string  `json:"course_name" bson:"course_name"`
	Description string  `json:"description" bson:"description"`
	Duration    string  `json:"duration" bson:"duration"`
	Fees        float64 `json:"fees" bson:"fees"`
	Category    string  `json:"category" bson:"category"`
}

type University struct {
	ID                  string            `json:"id" bson:"id"`
	Name                string            `json:"name" bson:"name"`
	Location            string            `json:"location" bson:"location"`
	State               string            `json:"state,omitempty" bson:"state,omitempty"`
	Categories          []string          `json:"university_categories" bson:"university_categories"`
	MainPhoto           string            `json:"main_photo,omitempty" bson:"main_photo,omitempty"`
	PhotoGallery        []string          `json:"photo_gallery" bson:"photo_gallery"`
	Description         string            `json:"description" bson:"description"`
	Courses             []Course          `json:"courses" bson:"courses"`
	PlacementPercentage float64           `json:"placement_percentage" bson:"placement_percentage"`
	Rating              float64           `json:"rating" bson:"rating"`
	Tags                []string          `json:"tags" bson:"tags"`
	ContactDetails      map[string]string `json:"contact_details" bson:"contact_details"`
	CreatedAt           time.Time         `json:"created_at" bson:"created_at"`
}

type UniversityCreate struct {
	Name                string            `json:"name" validate:"required"`
	Location            string            `json:"location" validate:"required"`
	State               string            `json:"state,omitempty"`
	Categories          []string          `json:"university_categories,omitempty"`
	MainPhoto           string            `json:"main_photo,omitempty"`
	PhotoGallery        []string          `json:"photo_gallery,omitempty"`
	Description         string            `json:"description" validate:"required"`
	Courses             []Course          `json:"courses,omitempty"`
	PlacementPercentage float64           `json:"placement_percentage" validate:"gte=0,lte=100"`
	Rating              float64           `json:"rating,omitempty" validate:"gte=0,lte=5"`
	Tags                []string          `json:"tags,omitempty"`
	ContactDetails      map[string]string `json:"contact_details,omitempty"`
}

type UniversityUpdate struct {
	Name                *string            `json:"name,omitempty" bson:"name,omitempty"`
	Location            *string            `json:"location,omitempty" bson:"location,omitempty"`
	State               *string            `json:"state,omitempty" bson:"state,omitempty"`
	Categories          *[]string          `json:"university_categories,omitempty" bson:"university_categories,omitempty"`
	MainPhoto           *string            `json:"main_photo,omitempty" bson:"main_photo,omitempty"`
	PhotoGallery        *[]string          `json:"photo_gallery,omitempty" bson:"photo_gallery,omitempty"`
	Description         *string            `json:"description,omitempty" bson:"description,omitempty"`
	Courses             *[]Course          `json:"courses,omitempty" bson:"courses,omitempty"`
	PlacementPercentage *float64           `json:"placement_percentage,omitempty" bson:"placement_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Rating              *float64           `json:"rating,omitempty" bson:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Tags                *[]string          `json:"tags,omitempty" bson:"tags,omitempty"`
	ContactDetails      *map[string]string `json:"contact_details,omitempty" bson:"contact_details,omitempty"`
}

// UniversityFilter carries the optional catalog search parameters. Fee
// bounds are applied after the store query, against the average annual
// course fee.
type UniversityFilter struct {
	Search       string
	Location     string
	State        string
	CourseType   string
	Category     string
	MinFee       *float64
	MaxFee       *float64
	MinRating    *float64
	MinPlacement *float64
}

// FilterOptions is the distinct locations/categories the catalog offers.
type FilterOptions struct {
	Locations  []string `json:"locations"`
	Categories []string `json:"categories"`
}
