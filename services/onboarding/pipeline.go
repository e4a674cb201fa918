package onboarding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"collabhub/models"
	"collabhub/utils"

	"go.uber.org/zap"
)

const (
	msgCreatorSuccess = "Onboarding complete! Your details have been saved."
	msgBrandSuccess   = "Brand onboarding complete! Redirecting to dashboard..."
	msgCreatorFailure = "Failed to submit onboarding data."
	msgBrandFailure   = "Failed to submit brand onboarding data."

	redirectCreator = "/dashboard"
	redirectBrand   = "/brand/dashboard"
)

// Pipeline stage names, carried by UploadError and PersistenceError.
const (
	StageProfilePicture = "profile_picture_upload"
	StageUserRow        = "user_update"
	StageSocialProfile  = "social_profile_upsert"
	StageLogo           = "logo_upload"
	StageBrandRow       = "brand_insert"
)

// progressFunc records a progress value on the session snapshot.
type progressFunc func(ctx context.Context, progress int)

// uploadedBlob is a blob written during a run. Referenced turns true once a row points at it.
type uploadedBlob struct {
	bucket     string
	key        string
	referenced bool
}

// UploadKey names an uploaded file: <userID>_<unixMillis>.<ext>, where ext is whatever follows the
// last dot of the original name (the whole name when there is no dot).
func UploadKey(userID string, at time.Time, fileName string) string {
	ext := fileName
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		ext = fileName[i+1:]
	}
	return fmt.Sprintf("%s_%d.%s", userID, at.UnixMilli(), ext)
}

// numberOrNil converts a numeric form field for a row; empty or non-finite input becomes null.
func numberOrNil(v string) interface{} {
	f, ok := parseNumber(v)
	if !ok {
		return nil
	}
	return f
}

func stringOrNil(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

// flatPricing is a rate card spread over the six cost columns shared by every platform.
type flatPricing struct {
	perPost, perStory, perReel, perVideo, perShort, perCommunityPost, currency string
}

func pricingFor(p models.Pricing, platform models.Platform) flatPricing {
	switch platform {
	case models.PlatformYouTube:
		if p.YouTube != nil {
			return flatPricing{perVideo: p.YouTube.PerVideoCost, perShort: p.YouTube.PerShortCost, perCommunityPost: p.YouTube.PerCommunityPostCost, currency: p.YouTube.Currency}
		}
	case models.PlatformInstagram:
		if p.Instagram != nil {
			return flatPricing{perPost: p.Instagram.PerPostCost, perStory: p.Instagram.PerStoryCost, perReel: p.Instagram.PerReelCost, currency: p.Instagram.Currency}
		}
	case models.PlatformFacebook:
		if p.Facebook != nil {
			return flatPricing{perPost: p.Facebook.PerPostCost, currency: p.Facebook.Currency}
		}
	case models.PlatformTikTok:
		if p.TikTok != nil {
			return flatPricing{perVideo: p.TikTok.PerVideoCost, currency: p.TikTok.Currency}
		}
	}
	return flatPricing{}
}

// BuildSocialProfile normalizes one platform of the session into a social_profiles row.
func BuildSocialProfile(userID string, platform models.Platform, details models.PlatformDetails, pricing models.Pricing) models.Row {
	fp := pricingFor(pricing, platform)
	currency := stringOrNil(fp.currency)
	row := models.Row{
		"user_id":                          userID,
		"platform":                         string(platform),
		"per_post_cost":                    numberOrNil(fp.perPost),
		"per_story_cost":                   numberOrNil(fp.perStory),
		"per_reel_cost":                    numberOrNil(fp.perReel),
		"per_video_cost":                   numberOrNil(fp.perVideo),
		"per_short_cost":                   numberOrNil(fp.perShort),
		"per_community_post_cost":          numberOrNil(fp.perCommunityPost),
		"per_post_cost_currency":           currency,
		"per_story_cost_currency":          currency,
		"per_reel_cost_currency":           currency,
		"per_video_cost_currency":          currency,
		"per_short_cost_currency":          currency,
		"per_community_post_cost_currency": currency,
	}
	if platform == models.PlatformYouTube {
		yt := details.YouTube
		if yt == nil {
			yt = &models.YouTubeDetails{}
		}
		row["channel_id"] = yt.ChannelID
		row["channel_name"] = yt.ChannelName
		row["profile_image"] = stringOrNil(yt.ProfileImage)
		row["subscriber_count"] = numberOrNil(yt.SubscriberCount)
		row["total_views"] = numberOrNil(yt.TotalViews)
		row["video_count"] = numberOrNil(yt.VideoCount)
		row["channel_url"] = yt.ChannelURL
		return row
	}
	d := details.Profile(platform)
	if d == nil {
		d = &models.ProfileDetails{}
	}
	row["username"] = d.ProfileURL
	row["followers"] = numberOrNil(d.Followers)
	row["posts"] = numberOrNil(d.Posts)
	row["profile_image"] = nil
	row["channel_url"] = d.ProfileURL
	return row
}

// BuildUserUpdate is the users row update of a creator submission.
func BuildUserUpdate(s *models.WizardSession, profileImage interface{}) models.Row {
	return models.Row{
		"username":      s.Personal.Name,
		"age":           s.Personal.Age,
		"gender":        s.Personal.Gender,
		"country":       s.Personal.Country,
		"category":      s.Personal.ResolvedCategory(),
		"profile_image": profileImage,
		"role":          string(s.Role),
	}
}

// BuildBrandRow is the brands row of a brand submission.
func BuildBrandRow(userID string, b models.BrandData, logoURL interface{}) models.Row {
	link := func(key string) interface{} { return stringOrNil(b.SocialLinks[key]) }
	return models.Row{
		"user_id":                      userID,
		"brand_name":                   b.BrandName,
		"logo_url":                     logoURL,
		"website_url":                  b.WebsiteURL,
		"industry":                     b.Industry,
		"company_size":                 b.CompanySize,
		"location":                     b.Location,
		"description":                  b.Description,
		"contact_person":               b.ContactPerson,
		"contact_email":                b.ContactEmail,
		"contact_phone":                b.ContactPhone,
		"role":                         b.Role,
		"instagram_url":                link("instagram_url"),
		"facebook_url":                 link("facebook_url"),
		"twitter_url":                  link("twitter_url"),
		"linkedin_url":                 link("linkedin_url"),
		"youtube_url":                  link("youtube_url"),
		"collaboration_types":          nonNil(b.CollaborationTypes),
		"preferred_creator_categories": nonNil(b.PreferredCreatorCategories),
		"brand_values":                 nonNil(b.BrandValues),
		"preferred_tone":               nonNil(b.PreferredTone),
		"platforms":                    nonNil(b.Platforms),
	}
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// uploadStaged pushes a staged file to bucket and returns its public URL.
func (s *DefaultOnboardingService) uploadStaged(ctx context.Context, userID string, kind FileKind, file *models.StagedFile, bucket, stage string) (string, *uploadedBlob, error) {
	data, err := s.Sessions.LoadFile(ctx, userID, kind)
	if err != nil {
		return "", nil, &UploadError{Stage: stage, Err: err}
	}
	if data == nil {
		return "", nil, &UploadError{Stage: stage, Err: fmt.Errorf("staged %s is missing; please attach it again", kind)}
	}
	key := UploadKey(userID, s.now(), file.Name)
	if err := s.Blobs.Upload(ctx, bucket, key, bytes.NewReader(data), file.ContentType); err != nil {
		return "", nil, &UploadError{Stage: stage, Err: err}
	}
	return s.Blobs.PublicURL(bucket, key), &uploadedBlob{bucket: bucket, key: key}, nil
}

// runCreatorPipeline uploads the profile picture, updates the users row, then upserts one
// social profile per selected platform in catalog order.
func (s *DefaultOnboardingService) runCreatorPipeline(ctx context.Context, id models.Identity, session *models.WizardSession, progress progressFunc) (*uploadedBlob, error) {
	var profileImage interface{}
	var blob *uploadedBlob
	if session.ProfilePicture != nil {
		progress(ctx, 20)
		url, uploaded, err := s.uploadStaged(ctx, id.ID, FileProfilePicture, session.ProfilePicture, models.BucketProfilePictures, StageProfilePicture)
		if err != nil {
			return nil, err
		}
		profileImage, blob = url, uploaded
	} else if avatar := firstNonEmpty(id.AvatarURL, session.AvatarURL); avatar != "" {
		profileImage = avatar
	}
	progress(ctx, 40)

	err := s.Rows.UpdateRow(ctx, models.TableUsers, models.Row{"id": id.ID}, BuildUserUpdate(session, profileImage))
	if err != nil {
		return blob, &PersistenceError{Stage: StageUserRow, Err: err}
	}
	if blob != nil {
		blob.referenced = true
	}
	progress(ctx, 60)

	for _, platform := range models.CreatorPlatforms {
		if !session.HasPlatform(platform) {
			continue
		}
		row := BuildSocialProfile(id.ID, platform, session.PlatformDetails, session.Pricing)
		if err := s.Rows.UpsertRow(ctx, models.TableSocialProfiles, row, []string{"user_id", "platform"}); err != nil {
			return blob, &PersistenceError{Stage: StageSocialProfile, Err: err}
		}
	}
	progress(ctx, 90)
	return blob, nil
}

// runBrandPipeline uploads the logo then inserts the brands row.
func (s *DefaultOnboardingService) runBrandPipeline(ctx context.Context, id models.Identity, session *models.WizardSession, progress progressFunc) (*uploadedBlob, error) {
	var logoURL interface{}
	var blob *uploadedBlob
	if session.Brand.Logo != nil {
		progress(ctx, 20)
		url, uploaded, err := s.uploadStaged(ctx, id.ID, FileLogo, session.Brand.Logo, models.BucketBrandLogos, StageLogo)
		if err != nil {
			return nil, err
		}
		logoURL, blob = url, uploaded
	}
	progress(ctx, 60)

	if err := s.Rows.InsertRow(ctx, models.TableBrands, BuildBrandRow(id.ID, session.Brand, logoURL)); err != nil {
		return blob, &PersistenceError{Stage: StageBrandRow, Err: err}
	}
	if blob != nil {
		blob.referenced = true
	}
	progress(ctx, 90)
	return blob, nil
}

// Submit runs the submission pipeline of the session's flow. The submit lock is taken before the
// draft is read. The session must be on its review step and every step up to it must validate. On failure nothing is retried, the error message is
// recorded on the session and progress goes back to 0.
func (s *DefaultOnboardingService) Submit(ctx context.Context, id models.Identity) (*models.SubmitResult, *models.WizardSession, error) {
	logger := utils.GetLogger()

	acquired, err := s.Sessions.AcquireSubmitLock(ctx, id.ID, s.lockTTL())
	if err != nil {
		return nil, nil, err
	}
	if !acquired {
		session, _ := s.Sessions.Load(ctx, id.ID)
		return nil, session, ErrSubmissionInProgress
	}
	defer func() {
		if err := s.Sessions.ReleaseSubmitLock(context.Background(), id.ID); err != nil {
			logger.Warn("Failed to release submit lock", zap.String("userID", id.ID), zap.Error(err))
		}
	}()

	// Loaded under the lock so a run that finished meanwhile is seen as a cleared draft.
	session, err := s.Sessions.Load(ctx, id.ID)
	if err != nil {
		return nil, nil, err
	}
	if !IsTerminal(session) {
		return nil, session, ErrNotAtTerminalStep
	}

	if ve := revalidateSession(session); ve != nil {
		session.StepError = ve.Message
		s.saveQuietly(ctx, session)
		return nil, session, ve
	}

	session.Submitting = true
	session.Progress = 0
	session.SubmitError = ""
	session.SubmitSuccess = ""
	s.saveQuietly(ctx, session)

	progress := func(ctx context.Context, p int) {
		session.Progress = p
		s.saveQuietly(ctx, session)
	}

	var blob *uploadedBlob
	var result *models.SubmitResult
	if session.IsBrandFlow() {
		blob, err = s.runBrandPipeline(ctx, id, session, progress)
		result = &models.SubmitResult{Message: msgBrandSuccess, RedirectTo: redirectBrand}
	} else {
		blob, err = s.runCreatorPipeline(ctx, id, session, progress)
		result = &models.SubmitResult{Message: msgCreatorSuccess, RedirectTo: redirectCreator}
	}

	if blob != nil && !blob.referenced {
		s.scheduleOrphanCleanup(ctx, blob)
	}

	if err != nil {
		def := msgCreatorFailure
		if session.IsBrandFlow() {
			def = msgBrandFailure
		}
		session.Submitting = false
		session.Progress = 0
		session.SubmitError = submitMessage(err, def)
		s.saveQuietly(ctx, session)
		logger.Error("Onboarding submission failed", zap.String("userID", id.ID), zap.String("role", string(session.Role)), zap.Error(err))
		return nil, session, err
	}

	session.Submitting = false
	session.Progress = 100
	session.SubmitSuccess = result.Message
	result.RedirectAfterMs = s.redirectDelay().Milliseconds()

	if err := s.Sessions.Clear(ctx, id.ID); err != nil {
		logger.Warn("Failed to clear onboarding draft after submission", zap.String("userID", id.ID), zap.Error(err))
	}
	logger.Info("Onboarding submitted", zap.String("userID", id.ID), zap.String("role", string(session.Role)))
	return result, session, nil
}

// submitMessage is the user-facing message of a failed run.
func submitMessage(err error, fallback string) string {
	var up *UploadError
	var pe *PersistenceError
	var inner error
	switch {
	case errors.As(err, &up):
		inner = up.Err
	case errors.As(err, &pe):
		inner = pe.Err
	default:
		inner = err
	}
	if inner == nil || inner.Error() == "" {
		return fallback
	}
	return inner.Error()
}

func (s *DefaultOnboardingService) scheduleOrphanCleanup(ctx context.Context, blob *uploadedBlob) {
	if s.Reaper == nil {
		return
	}
	if err := s.Reaper.ScheduleCleanup(ctx, blob.bucket, blob.key); err != nil {
		utils.GetLogger().Warn("Failed to schedule orphan blob cleanup", zap.String("bucket", blob.bucket), zap.String("key", blob.key), zap.Error(err))
	}
}

// saveQuietly snapshots a session where a store failure must not change the outcome.
func (s *DefaultOnboardingService) saveQuietly(ctx context.Context, session *models.WizardSession) {
	session.UpdatedAt = s.now()
	if err := s.Sessions.Save(ctx, session); err != nil {
		utils.GetLogger().Warn("Failed to snapshot onboarding session", zap.String("userID", session.UserID), zap.Error(err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
