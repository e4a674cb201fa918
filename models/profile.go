package models

// Identity is the authenticated user as reported by the identity provider.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Row store tables.
const (
	TableUsers          = "users"
	TableSocialProfiles = "social_profiles"
	TableBrands         = "brands"
)

// Blob store buckets.
const (
	BucketProfilePictures = "profile-pictures"
	BucketBrandLogos      = "brand-logos"
)

// OnboardingStatus tells a client whether to route the user into the wizard.
type OnboardingStatus struct {
	HasOnboarding bool    `json:"hasOnboarding"`
	Role          *string `json:"role"`
}

// SubmitResult is returned after a successful submission.
type SubmitResult struct {
	Message         string `json:"message"`
	RedirectTo      string `json:"redirectTo"`
	RedirectAfterMs int64  `json:"redirectAfterMs"`
}

// Row is one document as written to or read from the row store.
type Row = map[string]interface{}
