package onboarding

import (
	"testing"

	"collabhub/models"
)

func TestValidatePersonal(t *testing.T) {
	valid := models.PersonalDetails{Name: "Ana", Email: "ana@example.com", Age: "25", Gender: "Female", Category: "Tech", Country: "USA"}

	tests := []struct {
		name   string
		modify func(p *models.PersonalDetails)
		want   string
	}{
		{"valid", func(p *models.PersonalDetails) {}, ""},
		{"short name", func(p *models.PersonalDetails) { p.Name = "A" }, "Please enter a valid name."},
		{"missing email", func(p *models.PersonalDetails) { p.Email = "" }, "Email is required."},
		{"age too low", func(p *models.PersonalDetails) { p.Age = "9" }, "Please enter a valid age (10-99)."},
		{"age not numeric", func(p *models.PersonalDetails) { p.Age = "" }, "Please enter a valid age (10-99)."},
		{"age NaN", func(p *models.PersonalDetails) { p.Age = "NaN" }, "Please enter a valid age (10-99)."},
		{"age lower bound", func(p *models.PersonalDetails) { p.Age = "10" }, ""},
		{"age upper bound", func(p *models.PersonalDetails) { p.Age = "99" }, ""},
		{"no gender", func(p *models.PersonalDetails) { p.Gender = "" }, "Please select a gender."},
		{"no category", func(p *models.PersonalDetails) { p.Category = "" }, "Please select a content category."},
		{"other without text", func(p *models.PersonalDetails) { p.Category = "Other" }, "Please enter your content category."},
		{"other with text", func(p *models.PersonalDetails) { p.Category = "Other"; p.OtherCategory = "ASMR" }, ""},
		{"no country", func(p *models.PersonalDetails) { p.Country = "" }, "Please enter a valid country."},
		{"first rule wins", func(p *models.PersonalDetails) { p.Name = ""; p.Country = "" }, "Please enter a valid name."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			if got := ValidatePersonal(p); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatePlatformDetails(t *testing.T) {
	instagram := []models.Platform{models.PlatformInstagram}

	if got := ValidatePlatformDetails(instagram, models.PlatformDetails{}); got != "Please fill in all details for Instagram." {
		t.Errorf("missing record: %q", got)
	}
	details := models.PlatformDetails{Instagram: &models.ProfileDetails{ProfileURL: "ig.com/ana", Followers: "1k", Posts: "50"}}
	if got := ValidatePlatformDetails(instagram, details); got != "Followers and posts must be numbers for Instagram." {
		t.Errorf("non-numeric followers: %q", got)
	}
	for _, v := range []string{"NaN", "nan", "inf", "+Inf", "-Infinity", "infinity"} {
		details.Instagram.Followers = v
		if got := ValidatePlatformDetails(instagram, details); got != "Followers and posts must be numbers for Instagram." {
			t.Errorf("followers %q: %q", v, got)
		}
	}
	details.Instagram.Followers = "1000"
	if got := ValidatePlatformDetails(instagram, details); got != "" {
		t.Errorf("valid record: %q", got)
	}

	youtube := []models.Platform{models.PlatformYouTube}
	details.YouTube = &models.YouTubeDetails{ChannelURL: "https://youtube.com/@x"}
	if got := ValidatePlatformDetails(youtube, details); got != "Please provide a valid YouTube channel for YouTube." {
		t.Errorf("incomplete channel: %q", got)
	}
}

func TestValidatePricing(t *testing.T) {
	tests := []struct {
		name     string
		platform models.Platform
		pricing  models.Pricing
		want     string
	}{
		{"missing", models.PlatformTikTok, models.Pricing{}, "Please fill in pricing for TikTok."},
		{"youtube incomplete", models.PlatformYouTube, models.Pricing{YouTube: &models.YouTubePricing{PerVideoCost: "1", Currency: "USD"}}, "Please fill all YouTube pricing fields."},
		{"youtube not numeric", models.PlatformYouTube, models.Pricing{YouTube: &models.YouTubePricing{PerVideoCost: "1", PerShortCost: "x", PerCommunityPostCost: "2", Currency: "USD"}}, "YouTube pricing must be numbers."},
		{"instagram valid", models.PlatformInstagram, models.Pricing{Instagram: &models.InstagramPricing{PerPostCost: "20", PerStoryCost: "5", PerReelCost: "15", Currency: "USD"}}, ""},
		{"instagram no currency", models.PlatformInstagram, models.Pricing{Instagram: &models.InstagramPricing{PerPostCost: "20", PerStoryCost: "5", PerReelCost: "15"}}, "Please fill all Instagram pricing fields."},
		{"facebook not numeric", models.PlatformFacebook, models.Pricing{Facebook: &models.FacebookPricing{PerPostCost: "ten", Currency: "EUR"}}, "Facebook pricing must be a number."},
		{"instagram NaN", models.PlatformInstagram, models.Pricing{Instagram: &models.InstagramPricing{PerPostCost: "NaN", PerStoryCost: "5", PerReelCost: "15", Currency: "USD"}}, "Instagram pricing must be numbers."},
		{"youtube inf", models.PlatformYouTube, models.Pricing{YouTube: &models.YouTubePricing{PerVideoCost: "inf", PerShortCost: "1", PerCommunityPostCost: "2", Currency: "USD"}}, "YouTube pricing must be numbers."},
		{"facebook nan", models.PlatformFacebook, models.Pricing{Facebook: &models.FacebookPricing{PerPostCost: "nan", Currency: "EUR"}}, "Facebook pricing must be a number."},
		{"tiktok infinity", models.PlatformTikTok, models.Pricing{TikTok: &models.TikTokPricing{PerVideoCost: "Infinity", Currency: "EUR"}}, "TikTok pricing must be a number."},
		{"tiktok valid", models.PlatformTikTok, models.Pricing{TikTok: &models.TikTokPricing{PerVideoCost: "7.5", Currency: "EUR"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidatePricing([]models.Platform{tt.platform}, tt.pricing); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateBrandSteps(t *testing.T) {
	b := validBrand()
	for name, v := range map[string]func(models.BrandData) string{
		"details":  ValidateBrandDetails,
		"contact":  ValidateBrandContact,
		"platform": ValidateBrandPlatforms,
		"links":    ValidateBrandSocialLinks,
		"prefs":    ValidateBrandCollabPrefs,
	} {
		if got := v(b); got != "" {
			t.Errorf("%s: valid brand rejected: %q", name, got)
		}
	}

	bad := b
	bad.ContactEmail = "wile@acme"
	if got := ValidateBrandContact(bad); got != "Valid contact email is required." {
		t.Errorf("contact email: %q", got)
	}

	bad = b
	bad.SocialLinks = map[string]string{"instagram_url": ""}
	if got := ValidateBrandSocialLinks(bad); got != "Enter your Instagram URL." {
		t.Errorf("empty link: %q", got)
	}
	bad.SocialLinks = map[string]string{"instagram_url": "instagram.com/acme"}
	if got := ValidateBrandSocialLinks(bad); got != "Instagram URL must start with http:// or https://" {
		t.Errorf("schemeless link: %q", got)
	}

	bad = b
	bad.BrandValues = nil
	if got := ValidateBrandCollabPrefs(bad); got != "Select at least one brand value." {
		t.Errorf("brand values: %q", got)
	}

	bad = b
	bad.Description = ""
	if got := ValidateBrandDetails(bad); got != "Description is required." {
		t.Errorf("description: %q", got)
	}
}
