package onboarding

import (
	"fmt"
	"regexp"
	"strings"

	"collabhub/models"
)

// MaxUploadSize bounds staged profile pictures and brand logos.
const MaxUploadSize int64 = 3 * 1024 * 1024

var (
	nameSanitizer    = regexp.MustCompile(`[^a-zA-Z\s.'-]`)
	countrySanitizer = regexp.MustCompile(`[^a-zA-Z\s]`)
	digitsSanitizer  = regexp.MustCompile(`[^0-9]`)
)

// Action is a state transition applied by Reduce. Only this package defines actions.
type Action interface {
	apply(s *models.WizardSession) error
}

// Reduce applies action to s. A *ValidationError or ErrFileTooLarge leaves s in a state worth
// saving (the error message is recorded on the session); any other error leaves s untouched.
func Reduce(s *models.WizardSession, action Action) error {
	return action.apply(s)
}

// persistsOnError reports whether the session should still be saved after Reduce returned err.
func persistsOnError(err error) bool {
	if err == nil {
		return true
	}
	if _, ok := err.(*ValidationError); ok {
		return true
	}
	return err == ErrFileTooLarge
}

func requireCreatorFlow(s *models.WizardSession) error {
	if s.IsBrandFlow() {
		return ErrWrongFlow
	}
	return nil
}

func requireBrandFlow(s *models.WizardSession) error {
	if !s.IsBrandFlow() {
		return ErrWrongFlow
	}
	return nil
}

// SelectRole picks the marketplace side. Only allowed on the role selection step; picking brand
// switches the session to the brand sequence.
type SelectRole struct {
	Role models.Role `json:"role" binding:"required"`
}

func (a SelectRole) apply(s *models.WizardSession) error {
	if a.Role != models.RoleBrand && a.Role != models.RoleCreator {
		return fmt.Errorf("%w: role %q", ErrUnknownField, a.Role)
	}
	if s.IsBrandFlow() || s.Step != 0 {
		return ErrRoleLocked
	}
	s.Role = a.Role
	s.Step = 0
	s.StepError = ""
	return nil
}

// UpdatePersonal replaces the personal step. Email always comes from the identity.
type UpdatePersonal struct {
	Personal models.PersonalDetails `json:"personal"`
}

func (a UpdatePersonal) apply(s *models.WizardSession) error {
	if err := requireCreatorFlow(s); err != nil {
		return err
	}
	p := a.Personal
	p.Name = nameSanitizer.ReplaceAllString(p.Name, "")
	p.Country = countrySanitizer.ReplaceAllString(p.Country, "")
	p.Age = digitsSanitizer.ReplaceAllString(p.Age, "")
	if len(p.Age) > 2 {
		p.Age = p.Age[:2]
	}
	p.Email = s.Email
	s.Personal = p
	return nil
}

// TogglePlatform adds or removes a creator platform. Deselecting keeps the platform's details and
// pricing so reselecting restores them.
type TogglePlatform struct {
	Platform models.Platform `json:"platform" binding:"required"`
}

func (a TogglePlatform) apply(s *models.WizardSession) error {
	if err := requireCreatorFlow(s); err != nil {
		return err
	}
	if _, ok := models.ParsePlatform(string(a.Platform)); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, a.Platform)
	}
	selected := make([]models.Platform, 0, len(models.CreatorPlatforms))
	for _, p := range models.CreatorPlatforms {
		on := s.HasPlatform(p)
		if p == a.Platform {
			on = !on
		}
		if on {
			selected = append(selected, p)
		}
	}
	s.SelectedPlatforms = selected
	return nil
}

// SetPlatformDetails stores the profile record of Instagram, Facebook or TikTok.
type SetPlatformDetails struct {
	Platform models.Platform       `json:"platform"`
	Details  models.ProfileDetails `json:"details"`
}

func (a SetPlatformDetails) apply(s *models.WizardSession) error {
	if err := requireCreatorFlow(s); err != nil {
		return err
	}
	if _, ok := models.ParsePlatform(string(a.Platform)); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, a.Platform)
	}
	if a.Platform == models.PlatformYouTube {
		return ErrLookupOnly
	}
	s.PlatformDetails.SetProfile(a.Platform, a.Details)
	return nil
}

// SetYouTubeDetails stores a successful channel lookup.
type SetYouTubeDetails struct {
	Details models.YouTubeDetails
}

func (a SetYouTubeDetails) apply(s *models.WizardSession) error {
	if err := requireCreatorFlow(s); err != nil {
		return err
	}
	d := a.Details
	s.PlatformDetails.YouTube = &d
	s.LookupError = ""
	return nil
}

// PricingInput is the flat pricing form. Only the fields of the target platform are kept.
type PricingInput struct {
	PerVideoCost         string `json:"perVideoCost"`
	PerShortCost         string `json:"perShortCost"`
	PerCommunityPostCost string `json:"perCommunityPostCost"`
	PerPostCost          string `json:"perPostCost"`
	PerStoryCost         string `json:"perStoryCost"`
	PerReelCost          string `json:"perReelCost"`
	Currency             string `json:"currency"`
}

type SetPricing struct {
	Platform models.Platform `json:"platform"`
	Pricing  PricingInput    `json:"pricing"`
}

func (a SetPricing) apply(s *models.WizardSession) error {
	if err := requireCreatorFlow(s); err != nil {
		return err
	}
	in := a.Pricing
	switch a.Platform {
	case models.PlatformYouTube:
		s.Pricing.YouTube = &models.YouTubePricing{
			PerVideoCost:         in.PerVideoCost,
			PerShortCost:         in.PerShortCost,
			PerCommunityPostCost: in.PerCommunityPostCost,
			Currency:             in.Currency,
		}
	case models.PlatformInstagram:
		s.Pricing.Instagram = &models.InstagramPricing{
			PerPostCost:  in.PerPostCost,
			PerStoryCost: in.PerStoryCost,
			PerReelCost:  in.PerReelCost,
			Currency:     in.Currency,
		}
	case models.PlatformFacebook:
		s.Pricing.Facebook = &models.FacebookPricing{PerPostCost: in.PerPostCost, Currency: in.Currency}
	case models.PlatformTikTok:
		s.Pricing.TikTok = &models.TikTokPricing{PerVideoCost: in.PerVideoCost, Currency: in.Currency}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, a.Platform)
	}
	return nil
}

// AttachProfilePicture stages a picture. An oversized file is rejected, the previous picture is
// dropped and the profile picture step is blocked until a valid file or a clear.
type AttachProfilePicture struct {
	File models.StagedFile
}

func (a AttachProfilePicture) apply(s *models.WizardSession) error {
	if err := requireCreatorFlow(s); err != nil {
		return err
	}
	if a.File.Size > MaxUploadSize {
		s.ProfilePicture = nil
		s.ProfilePictureError = ErrFileTooLarge.Error()
		return ErrFileTooLarge
	}
	f := a.File
	s.ProfilePicture = &f
	s.ProfilePictureError = ""
	return nil
}

type ClearProfilePicture struct{}

func (ClearProfilePicture) apply(s *models.WizardSession) error {
	if err := requireCreatorFlow(s); err != nil {
		return err
	}
	s.ProfilePicture = nil
	s.ProfilePictureError = ""
	return nil
}

// UpdateBrand overwrites the non-nil scalar fields of the brand draft.
type UpdateBrand struct {
	Patch models.BrandDataPatch
}

func (a UpdateBrand) apply(s *models.WizardSession) error {
	if err := requireBrandFlow(s); err != nil {
		return err
	}
	b := &s.Brand
	p := a.Patch
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&b.BrandName, p.BrandName)
	set(&b.WebsiteURL, p.WebsiteURL)
	set(&b.Industry, p.Industry)
	set(&b.CompanySize, p.CompanySize)
	set(&b.Location, p.Location)
	set(&b.Description, p.Description)
	set(&b.ContactPerson, p.ContactPerson)
	set(&b.ContactEmail, p.ContactEmail)
	set(&b.ContactPhone, p.ContactPhone)
	set(&b.Role, p.Role)
	return nil
}

// ToggleBrandPlatform adds or removes a brand platform, keeping catalog order. The platform's
// social link survives a deselect.
type ToggleBrandPlatform struct {
	Platform string `json:"platform" binding:"required"`
}

func (a ToggleBrandPlatform) apply(s *models.WizardSession) error {
	if err := requireBrandFlow(s); err != nil {
		return err
	}
	if !contains(models.BrandPlatforms, a.Platform) {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, a.Platform)
	}
	selected := make([]string, 0, len(models.BrandPlatforms))
	for _, p := range models.BrandPlatforms {
		on := contains(s.Brand.Platforms, p)
		if p == a.Platform {
			on = !on
		}
		if on {
			selected = append(selected, p)
		}
	}
	s.Brand.Platforms = selected
	return nil
}

// SetSocialLink stores one brand social link by its column key, e.g. "instagram_url".
type SetSocialLink struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (a SetSocialLink) apply(s *models.WizardSession) error {
	if err := requireBrandFlow(s); err != nil {
		return err
	}
	known := false
	for _, key := range models.BrandSocialLinkKeys {
		if key == a.Key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: social link %q", ErrUnknownField, a.Key)
	}
	if s.Brand.SocialLinks == nil {
		s.Brand.SocialLinks = map[string]string{}
	}
	s.Brand.SocialLinks[a.Key] = strings.TrimSpace(a.URL)
	return nil
}

// ToggleBrandPreference adds or removes one option of a collaboration preference list.
type ToggleBrandPreference struct {
	Preference models.BrandPreference `json:"preference" binding:"required"`
	Value      string                 `json:"value" binding:"required"`
}

func (a ToggleBrandPreference) apply(s *models.WizardSession) error {
	if err := requireBrandFlow(s); err != nil {
		return err
	}
	list, ok := s.Brand.Preference(a.Preference)
	if !ok {
		return fmt.Errorf("%w: preference %q", ErrUnknownField, a.Preference)
	}
	if !contains(preferenceOptions(a.Preference), a.Value) {
		return fmt.Errorf("%w: %s option %q", ErrUnknownField, a.Preference, a.Value)
	}
	if contains(*list, a.Value) {
		out := make([]string, 0, len(*list))
		for _, v := range *list {
			if v != a.Value {
				out = append(out, v)
			}
		}
		*list = out
		return nil
	}
	*list = append(*list, a.Value)
	return nil
}

func preferenceOptions(p models.BrandPreference) []string {
	switch p {
	case models.PrefCollaborationTypes:
		return models.CollaborationTypes
	case models.PrefCreatorCategories:
		return models.CreatorCategories
	case models.PrefBrandValues:
		return models.BrandValues
	case models.PrefTone:
		return models.Tones
	}
	return nil
}

type AttachLogo struct {
	File models.StagedFile
}

func (a AttachLogo) apply(s *models.WizardSession) error {
	if err := requireBrandFlow(s); err != nil {
		return err
	}
	if a.File.Size > MaxUploadSize {
		return ErrFileTooLarge
	}
	f := a.File
	s.Brand.Logo = &f
	return nil
}

// Next advances when the current step validates; otherwise the message is kept in StepError.
type Next struct{}

func (Next) apply(s *models.WizardSession) error {
	if err := advanceSession(s); err != nil {
		if ve, ok := err.(*ValidationError); ok {
			s.StepError = ve.Message
		}
		return err
	}
	s.StepError = ""
	return nil
}

// Back moves one step back without validating or touching form data.
type Back struct{}

func (Back) apply(s *models.WizardSession) error {
	if err := retreatSession(s); err != nil {
		return err
	}
	s.StepError = ""
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
