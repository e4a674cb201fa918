package models

import "time"

// Role is the marketplace side a user onboards as.
type Role string

const (
	RoleUnset   Role = ""
	RoleBrand   Role = "brand"
	RoleCreator Role = "creator"
)

// EntryPoint selects which wizard a session starts in.
type EntryPoint string

const (
	// EntryCombined starts at role selection and follows the creator sequence unless brand is picked.
	EntryCombined EntryPoint = "combined"
	// EntryBrand starts directly in the brand sequence.
	EntryBrand EntryPoint = "brand"
)

// Platform is a creator platform from the fixed catalog.
type Platform string

const (
	PlatformYouTube   Platform = "YouTube"
	PlatformInstagram Platform = "Instagram"
	PlatformFacebook  Platform = "Facebook"
	PlatformTikTok    Platform = "TikTok"
)

// CreatorPlatforms is the creator catalog in display order. Submission iterates in this order.
var CreatorPlatforms = []Platform{PlatformYouTube, PlatformInstagram, PlatformFacebook, PlatformTikTok}

// ParsePlatform resolves a catalog platform name.
func ParsePlatform(name string) (Platform, bool) {
	for _, p := range CreatorPlatforms {
		if string(p) == name {
			return p, true
		}
	}
	return "", false
}

var (
	GenderOptions   = []string{"Male", "Female", "Non-binary", "Prefer not to say"}
	CategoryOptions = []string{"Tech", "Fashion", "Travel", "Food", "Fitness", "Beauty", "Gaming", "Education", "Music", "Finance", "Other"}
)

// CategoryOther switches the personal step to the free-text category.
const CategoryOther = "Other"

// PersonalDetails is the creator's personal step. Age stays as typed; validation checks it is numeric.
type PersonalDetails struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Age           string `json:"age"`
	Gender        string `json:"gender"`
	Country       string `json:"country"`
	Category      string `json:"category"`
	OtherCategory string `json:"otherCategory"`
}

// ResolvedCategory returns the free-text category when "Other" was picked.
func (p PersonalDetails) ResolvedCategory() string {
	if p.Category == CategoryOther {
		return p.OtherCategory
	}
	return p.Category
}

// YouTubeDetails is filled from a channel lookup, never typed by the user.
type YouTubeDetails struct {
	ChannelURL      string `json:"channelUrl"`
	ChannelID       string `json:"channelId"`
	ChannelName     string `json:"channelName"`
	ProfileImage    string `json:"profileImage,omitempty"`
	SubscriberCount string `json:"subscriberCount,omitempty"`
	TotalViews      string `json:"totalViews,omitempty"`
	VideoCount      string `json:"videoCount,omitempty"`
}

// ProfileDetails is the user-entered record for Instagram, Facebook and TikTok.
type ProfileDetails struct {
	ProfileURL string `json:"profileUrl"`
	Followers  string `json:"followers"`
	Posts      string `json:"posts"`
}

// PlatformDetails holds one typed record per catalog platform; nil means not filled in yet.
type PlatformDetails struct {
	YouTube   *YouTubeDetails `json:"youtube,omitempty"`
	Instagram *ProfileDetails `json:"instagram,omitempty"`
	Facebook  *ProfileDetails `json:"facebook,omitempty"`
	TikTok    *ProfileDetails `json:"tiktok,omitempty"`
}

// Profile returns the profile-style record of a non-YouTube platform.
func (d PlatformDetails) Profile(p Platform) *ProfileDetails {
	switch p {
	case PlatformInstagram:
		return d.Instagram
	case PlatformFacebook:
		return d.Facebook
	case PlatformTikTok:
		return d.TikTok
	}
	return nil
}

// Has reports whether a record exists for the platform.
func (d PlatformDetails) Has(p Platform) bool {
	if p == PlatformYouTube {
		return d.YouTube != nil
	}
	return d.Profile(p) != nil
}

// SetProfile stores the record of a non-YouTube platform.
func (d *PlatformDetails) SetProfile(p Platform, rec ProfileDetails) {
	switch p {
	case PlatformInstagram:
		d.Instagram = &rec
	case PlatformFacebook:
		d.Facebook = &rec
	case PlatformTikTok:
		d.TikTok = &rec
	}
}

type YouTubePricing struct {
	PerVideoCost         string `json:"perVideoCost"`
	PerShortCost         string `json:"perShortCost"`
	PerCommunityPostCost string `json:"perCommunityPostCost"`
	Currency             string `json:"currency"`
}

type InstagramPricing struct {
	PerPostCost  string `json:"perPostCost"`
	PerStoryCost string `json:"perStoryCost"`
	PerReelCost  string `json:"perReelCost"`
	Currency     string `json:"currency"`
}

type FacebookPricing struct {
	PerPostCost string `json:"perPostCost"`
	Currency    string `json:"currency"`
}

type TikTokPricing struct {
	PerVideoCost string `json:"perVideoCost"`
	Currency     string `json:"currency"`
}

// Pricing holds one typed rate card per catalog platform.
type Pricing struct {
	YouTube   *YouTubePricing   `json:"youtube,omitempty"`
	Instagram *InstagramPricing `json:"instagram,omitempty"`
	Facebook  *FacebookPricing  `json:"facebook,omitempty"`
	TikTok    *TikTokPricing    `json:"tiktok,omitempty"`
}

// Has reports whether a rate card exists for the platform.
func (p Pricing) Has(platform Platform) bool {
	switch platform {
	case PlatformYouTube:
		return p.YouTube != nil
	case PlatformInstagram:
		return p.Instagram != nil
	case PlatformFacebook:
		return p.Facebook != nil
	case PlatformTikTok:
		return p.TikTok != nil
	}
	return false
}

// StagedFile references an upload held next to the draft until submission.
type StagedFile struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Brand platforms differ from the creator catalog.
var BrandPlatforms = []string{"Instagram", "YouTube", "Facebook", "Twitter", "LinkedIn"}

// BrandSocialLinkKeys maps a brand platform to its social_links key and brands column.
var BrandSocialLinkKeys = map[string]string{
	"Instagram": "instagram_url",
	"YouTube":   "youtube_url",
	"Facebook":  "facebook_url",
	"Twitter":   "twitter_url",
	"LinkedIn":  "linkedin_url",
}

var (
	CompanySizes       = []string{"1-10", "11-50", "51-200", "201-1000", "1000+"}
	Industries         = []string{"Tech", "Fashion", "Travel", "Food", "Fitness", "Beauty", "Gaming", "Education", "Music", "Finance", "Other"}
	CollaborationTypes = []string{"Sponsored Posts", "Giveaways", "Product Reviews", "Long-term Partnerships", "Affiliate Marketing", "Events", "Content Creation", "Brand Ambassadorship", "Social Media Takeover", "Other"}
	CreatorCategories  = []string{"Tech", "Fashion", "Travel", "Food", "Fitness", "Beauty", "Gaming", "Education", "Music", "Finance", "Other"}
	BrandValues        = []string{"Sustainability", "Innovation", "Diversity", "Quality", "Community", "Transparency", "Customer Focus", "Creativity", "Integrity", "Other"}
	Tones              = []string{"Professional", "Friendly", "Humorous", "Inspirational", "Bold", "Casual", "Formal", "Playful", "Serious", "Other"}
)

// BrandPreference names a multi-select list of the collaboration preferences step.
type BrandPreference string

const (
	PrefCollaborationTypes BrandPreference = "collaboration_types"
	PrefCreatorCategories  BrandPreference = "preferred_creator_categories"
	PrefBrandValues        BrandPreference = "brand_values"
	PrefTone               BrandPreference = "preferred_tone"
)

// BrandData is the brand wizard draft.
type BrandData struct {
	BrandName                  string            `json:"brand_name"`
	Logo                       *StagedFile       `json:"logo,omitempty"`
	WebsiteURL                 string            `json:"website_url"`
	Industry                   string            `json:"industry"`
	CompanySize                string            `json:"company_size"`
	Location                   string            `json:"location"`
	Description                string            `json:"description"`
	ContactPerson              string            `json:"contact_person"`
	ContactEmail               string            `json:"contact_email"`
	ContactPhone               string            `json:"contact_phone"`
	Role                       string            `json:"role"`
	Platforms                  []string          `json:"platforms"`
	SocialLinks                map[string]string `json:"social_links"`
	CollaborationTypes         []string          `json:"collaboration_types"`
	PreferredCreatorCategories []string          `json:"preferred_creator_categories"`
	BrandValues                []string          `json:"brand_values"`
	PreferredTone              []string          `json:"preferred_tone"`
}

// NewBrandData returns the empty brand draft.
func NewBrandData() BrandData {
	return BrandData{
		Platforms:                  []string{},
		SocialLinks:                map[string]string{},
		CollaborationTypes:         []string{},
		PreferredCreatorCategories: []string{},
		BrandValues:                []string{},
		PreferredTone:              []string{},
	}
}

// Preference returns a pointer to the named multi-select list.
func (b *BrandData) Preference(name BrandPreference) (*[]string, bool) {
	switch name {
	case PrefCollaborationTypes:
		return &b.CollaborationTypes, true
	case PrefCreatorCategories:
		return &b.PreferredCreatorCategories, true
	case PrefBrandValues:
		return &b.BrandValues, true
	case PrefTone:
		return &b.PreferredTone, true
	}
	return nil, false
}

// BrandDataPatch carries the scalar brand fields a client may overwrite. Nil fields are left alone.
type BrandDataPatch struct {
	BrandName     *string `json:"brand_name,omitempty"`
	WebsiteURL    *string `json:"website_url,omitempty"`
	Industry      *string `json:"industry,omitempty"`
	CompanySize   *string `json:"company_size,omitempty"`
	Location      *string `json:"location,omitempty"`
	Description   *string `json:"description,omitempty"`
	ContactPerson *string `json:"contact_person,omitempty"`
	ContactEmail  *string `json:"contact_email,omitempty"`
	ContactPhone  *string `json:"contact_phone,omitempty"`
	Role          *string `json:"role,omitempty"`
}

// WizardSession is the whole onboarding draft of one user.
type WizardSession struct {
	UserID    string     `json:"userId"`
	Email     string     `json:"email"`
	AvatarURL string     `json:"avatarUrl,omitempty"`
	Entry     EntryPoint `json:"entry"`
	Role      Role       `json:"role"`
	Step      int        `json:"step"`

	Personal          PersonalDetails `json:"personal"`
	SelectedPlatforms []Platform      `json:"selectedPlatforms"`
	PlatformDetails   PlatformDetails `json:"platformDetails"`
	Pricing           Pricing         `json:"pricing"`
	ProfilePicture    *StagedFile     `json:"profilePicture,omitempty"`

	Brand BrandData `json:"brand"`

	StepError           string `json:"stepError,omitempty"`
	LookupError         string `json:"lookupError,omitempty"`
	ProfilePictureError string `json:"profilePictureError,omitempty"`
	Submitting          bool   `json:"submitting"`
	Progress            int    `json:"progress"`
	SubmitError         string `json:"submitError,omitempty"`
	SubmitSuccess       string `json:"submitSuccess,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsBrandFlow reports whether the session follows the brand sequence.
func (s *WizardSession) IsBrandFlow() bool {
	return s.Role == RoleBrand
}

// HasPlatform reports whether the creator picked the platform.
func (s *WizardSession) HasPlatform(p Platform) bool {
	for _, sel := range s.SelectedPlatforms {
		if sel == p {
			return true
		}
	}
	return false
}
