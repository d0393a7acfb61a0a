// Package model defines the core domain models used throughout the application.
package model

// Bundle is a purchasable firewood package.
type Bundle struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	IconID   string `yaml:"icon" json:"icon"`
	Popular  bool   `yaml:"popular" json:"popular"`
}

// Testimonial is a customer quote shown in the carousel.
type Testimonial struct {
	Text     string `yaml:"text" json:"text"`
	Author   string `yaml:"author" json:"author"`
	Location string `yaml:"location" json:"location"`
	ID       int    `yaml:"id" json:"id"`
}

// Schedule describes the business opening hours on a 24-hour clock.
// The range is half-open: [OpenHour, CloseHour).
type Schedule struct {
	Timezone  string `yaml:"timezone" json:"timezone"`
	OpenHour  int    `yaml:"open_hour" json:"openHour"`
	CloseHour int    `yaml:"close_hour" json:"closeHour"`
}
