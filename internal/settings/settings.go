// Package settings persists the website settings and the admin profile as
// JSON documents in a directory.
package settings

// Appearance controls how the public site renders.
type Appearance struct {
	Theme         string `json:"theme"`
	ReducedMotion bool   `json:"reducedMotion"`
	HighContrast  bool   `json:"highContrast"`
}

// Notifications holds the admin's email preferences.
type Notifications struct {
	EmailNotifications bool `json:"emailNotifications"`
	MarketingEmails    bool `json:"marketingEmails"`
	ActivitySummary    bool `json:"activitySummary"`
}

// SEO holds the document title and meta tags.
type SEO struct {
	SiteTitle       string `json:"siteTitle"`
	SiteDescription string `json:"siteDescription"`
	SiteKeywords    string `json:"siteKeywords"`
}

// Privacy controls which details the public site shows.
type Privacy struct {
	ShowPortfolioStats     bool `json:"showPortfolioStats"`
	ShowContactInfo        bool `json:"showContactInfo"`
	ShowTestimonialAuthors bool `json:"showTestimonialAuthors"`
}

// Settings is the website settings document.
type Settings struct {
	Appearance    Appearance    `json:"appearance"`
	Notifications Notifications `json:"notifications"`
	SEO           SEO           `json:"seo"`
	Privacy       Privacy       `json:"privacy"`
}

// SocialLinks are the profile's social network handles.
type SocialLinks struct {
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
}

// Profile is the admin profile document.
type Profile struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Avatar      string      `json:"avatar"`
	Bio         string      `json:"bio"`
	Location    string      `json:"location"`
	Phone       string      `json:"phone"`
	Website     string      `json:"website"`
	Company     string      `json:"company"`
	SocialLinks SocialLinks `json:"socialLinks"`
}

// DefaultSettings returns the settings used until the admin saves their own.
func DefaultSettings() Settings {
	return Settings{
		Appearance: Appearance{Theme: "system"},
		Notifications: Notifications{
			EmailNotifications: true,
			ActivitySummary:    true,
		},
		SEO: SEO{
			SiteTitle:       "Nabil William - Influencer Marketing Specialist",
			SiteDescription: "Expert influencer marketing manager helping brands connect with their audience through strategic partnerships.",
			SiteKeywords:    "influencer marketing, social media, brand partnerships, digital marketing",
		},
		Privacy: Privacy{
			ShowPortfolioStats:     true,
			ShowContactInfo:        true,
			ShowTestimonialAuthors: true,
		},
	}
}

// DefaultProfile returns the profile of an admin who never edited it.
func DefaultProfile(email string) Profile {
	return Profile{
		Name:   "Admin",
		Email:  email,
		Avatar: "/placeholder.svg",
	}
}
