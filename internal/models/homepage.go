package models

import (
	"time"
)

// HomepageConfig is a singleton document; updates overwrite it wholesale.
type HomepageConfig struct {
	HeroTitle          string    `json:"hero_title" bson:"hero_title"`
	HeroTitleHighlight string    `json:"hero_title_highlight" bson:"hero_title_highlight"`
	HeroSubtitle       string    `json:"hero_subtitle" bson:"hero_subtitle"`
	CTAText            string    `json:"cta_text" bson:"cta_text"`
	BackgroundImages   []string  `json:"background_images" bson:"background_images"`
	SlideIntervalMS    int       `json:"slide_interval_ms" bson:"slide_interval_ms"`
	SiteName           string    `json:"site_name" bson:"site_name"`
	LogoURL            string    `json:"logo_url" bson:"logo_url"`
	HeroTitleColor     string    `json:"hero_title_color" bson:"hero_title_color"`
	HeroHighlightColor string    `json:"hero_highlight_color" bson:"hero_highlight_color"`
	HeroSubtitleColor  string    `json:"hero_subtitle_color" bson:"hero_subtitle_color"`
	ShowFooter         bool      `json:"show_footer" bson:"show_footer"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

func DefaultHomepageConfig() HomepageConfig {
	return HomepageConfig{
		HeroTitle:          "Find Your Perfect",
		HeroTitleHighlight: "College Match",
		HeroSubtitle:       "Explore universities across Uttar Pradesh. Compare courses, fees, and facilities to make the right choice for your future.",
		CTAText:            "Search",
		BackgroundImages: []string{
			"https://images.unsplash.com/photo-1680084521806-b408d976e3e7?crop=entropy&cs=srgb&fm=jpg&q=85",
			"https://images.unsplash.com/photo-1562774053-701939374585?crop=entropy&cs=srgb&fm=jpg&q=85",
			"https://images.unsplash.com/photo-1541339907198-e08756dedf3f?crop=entropy&cs=srgb&fm=jpg&q=85",
			"https://images.unsplash.com/photo-1498243691581-b145c3f54a5a?crop=entropy&cs=srgb&fm=jpg&q=85",
		},
		SlideIntervalMS:    5000,
		SiteName:           "Edu Dham",
		HeroTitleColor:     "#ffffff",
		HeroHighlightColor: "#f97316",
		HeroSubtitleColor:  "#cbd5e1",
		UpdatedAt:          time.Now().UTC(),
	}
}
