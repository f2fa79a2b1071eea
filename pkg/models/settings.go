package models

// Settings is the single-record site contact and brand slice.
type Settings struct {
	SiteName     string `json:"siteName"`
	Tagline      string `json:"tagline"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	WorkingHours string `json:"workingHours"`
	Facebook     string `json:"facebook"`
	Instagram    string `json:"instagram"`
	LogoURL      string `json:"logoUrl"`
}

// Section is one block of a rendered page. Image holds a URL returned by
// the upload endpoint; it flows through like any other string.
type Section struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Image   string `json:"image"`
	Order   int    `json:"order"`
}

// Page is one page of the site builder tree.
type Page struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Slug     string    `json:"slug"`
	Visible  bool      `json:"visible"`
	Sections []Section `json:"sections"`
}

// UISettings is the single-record theme and page-builder slice.
type UISettings struct {
	Theme        string `json:"theme"`
	PrimaryColor string `json:"primaryColor"`
	AccentColor  string `json:"accentColor"`
	HeroImage    string `json:"heroImage"`
	Pages        []Page `json:"pages"`
}

// APIKeys is the single-record third-party credential slice.
type APIKeys struct {
	GoogleMaps      string `json:"googleMaps"`
	Analytics       string `json:"analytics"`
	RecaptchaSite   string `json:"recaptchaSite"`
	RecaptchaSecret string `json:"recaptchaSecret"`
	PaymentPublic   string `json:"paymentPublic"`
	PaymentSecret   string `json:"paymentSecret"`
}
