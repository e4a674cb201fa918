package onboarding

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"collabhub/models"
)

var (
	contactEmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	httpURLPattern      = regexp.MustCompile(`^https?://`)
)

// parseNumber parses a trimmed decimal form value. NaN and infinities are not numbers a user can
// enter for a count or a price, so they are refused along with anything ParseFloat rejects.
func parseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNumeric(v string) bool {
	_, ok := parseNumber(v)
	return ok
}

func anyNonNumeric(values ...string) bool {
	for _, v := range values {
		if !isNumeric(v) {
			return true
		}
	}
	return false
}

func ValidateRole(role models.Role) string {
	if role == models.RoleUnset {
		return "Please select a role to continue."
	}
	return ""
}

func ValidatePersonal(p models.PersonalDetails) string {
	if p.Name == "" || utf8.RuneCountInString(p.Name) < 2 {
		return "Please enter a valid name."
	}
	if p.Email == "" {
		return "Email is required."
	}
	if !isNumeric(p.Age) {
		return "Please enter a valid age (10-99)."
	}
	if age, _ := parseNumber(p.Age); age < 10 || age > 99 {
		return "Please enter a valid age (10-99)."
	}
	if p.Gender == "" {
		return "Please select a gender."
	}
	if p.Category == "" {
		return "Please select a content category."
	}
	if p.Category == models.CategoryOther && p.OtherCategory == "" {
		return "Please enter your content category."
	}
	if p.Country == "" {
		return "Please enter a valid country."
	}
	return ""
}

func ValidatePlatformSelection(selected []models.Platform) string {
	if len(selected) == 0 {
		return "Select at least one platform."
	}
	return ""
}

func ValidatePlatformDetails(selected []models.Platform, details models.PlatformDetails) string {
	for _, platform := range selected {
		if !details.Has(platform) {
			return fmt.Sprintf("Please fill in all details for %s.", platform)
		}
		switch platform {
		case models.PlatformYouTube:
			yt := details.YouTube
			if yt.ChannelURL == "" || yt.ChannelID == "" || yt.ChannelName == "" {
				return fmt.Sprintf("Please provide a valid YouTube channel for %s.", platform)
			}
		default:
			d := details.Profile(platform)
			if d.ProfileURL == "" || d.Followers == "" || d.Posts == "" {
				return fmt.Sprintf("Please fill in all details for %s.", platform)
			}
			if anyNonNumeric(d.Followers, d.Posts) {
				return fmt.Sprintf("Followers and posts must be numbers for %s.", platform)
			}
		}
	}
	return ""
}

func ValidatePricing(selected []models.Platform, pricing models.Pricing) string {
	for _, platform := range selected {
		if !pricing.Has(platform) {
			return fmt.Sprintf("Please fill in pricing for %s.", platform)
		}
		switch platform {
		case models.PlatformYouTube:
			p := pricing.YouTube
			if p.PerVideoCost == "" || p.PerShortCost == "" || p.PerCommunityPostCost == "" || p.Currency == "" {
				return "Please fill all YouTube pricing fields."
			}
			if anyNonNumeric(p.PerVideoCost, p.PerShortCost, p.PerCommunityPostCost) {
				return "YouTube pricing must be numbers."
			}
		case models.PlatformInstagram:
			p := pricing.Instagram
			if p.PerPostCost == "" || p.PerStoryCost == "" || p.PerReelCost == "" || p.Currency == "" {
				return "Please fill all Instagram pricing fields."
			}
			if anyNonNumeric(p.PerPostCost, p.PerStoryCost, p.PerReelCost) {
				return "Instagram pricing must be numbers."
			}
		case models.PlatformFacebook:
			p := pricing.Facebook
			if p.PerPostCost == "" || p.Currency == "" {
				return "Please fill all Facebook pricing fields."
			}
			if !isNumeric(p.PerPostCost) {
				return "Facebook pricing must be a number."
			}
		case models.PlatformTikTok:
			p := pricing.TikTok
			if p.PerVideoCost == "" || p.Currency == "" {
				return "Please fill all TikTok pricing fields."
			}
			if !isNumeric(p.PerVideoCost) {
				return "TikTok pricing must be a number."
			}
		}
	}
	return ""
}

func ValidateBrandDetails(b models.BrandData) string {
	switch {
	case b.BrandName == "":
		return "Brand name is required."
	case b.WebsiteURL == "":
		return "Website URL is required."
	case b.Industry == "":
		return "Industry is required."
	case b.CompanySize == "":
		return "Company size is required."
	case b.Location == "":
		return "Location is required."
	case b.Description == "":
		return "Description is required."
	}
	return ""
}

func ValidateBrandContact(b models.BrandData) string {
	if b.ContactPerson == "" {
		return "Contact person is required."
	}
	if b.ContactEmail == "" || !contactEmailPattern.MatchString(b.ContactEmail) {
		return "Valid contact email is required."
	}
	return ""
}

func ValidateBrandPlatforms(b models.BrandData) string {
	if len(b.Platforms) == 0 {
		return "Select at least one platform."
	}
	return ""
}

func ValidateBrandSocialLinks(b models.BrandData) string {
	for _, platform := range b.Platforms {
		key, ok := models.BrandSocialLinkKeys[platform]
		if !ok {
			continue
		}
		link := b.SocialLinks[key]
		if link == "" {
			return fmt.Sprintf("Enter your %s URL.", platform)
		}
		if !httpURLPattern.MatchString(link) {
			return fmt.Sprintf("%s URL must start with http:// or https://", platform)
		}
	}
	return ""
}

func ValidateBrandCollabPrefs(b models.BrandData) string {
	switch {
	case len(b.CollaborationTypes) == 0:
		return "Select at least one collaboration type."
	case len(b.PreferredCreatorCategories) == 0:
		return "Select at least one creator category."
	case len(b.BrandValues) == 0:
		return "Select at least one brand value."
	case len(b.PreferredTone) == 0:
		return "Select at least one preferred tone."
	}
	return ""
}
