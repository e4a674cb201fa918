package onboarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"collabhub/models"
	"collabhub/utils"

	"go.uber.org/zap"
)

var _ OnboardingService = (*DefaultOnboardingService)(nil)

// NewSession builds a fresh draft for an identity. The brand entry point skips role selection.
func NewSession(id models.Identity, entry models.EntryPoint, at time.Time) *models.WizardSession {
	s := &models.WizardSession{
		UserID:            id.ID,
		Email:             id.Email,
		AvatarURL:         id.AvatarURL,
		Entry:             entry,
		Personal:          models.PersonalDetails{Name: id.Name, Email: id.Email},
		SelectedPlatforms: []models.Platform{},
		Brand:             models.NewBrandData(),
		CreatedAt:         at,
		UpdatedAt:         at,
	}
	if entry == models.EntryBrand {
		s.Role = models.RoleBrand
	}
	return s
}

// Start restores the user's draft or creates one. A brand entry over a draft that is not in the
// brand flow starts over, since that draft can no longer switch roles.
func (s *DefaultOnboardingService) Start(ctx context.Context, id models.Identity, entry models.EntryPoint) (*models.WizardSession, error) {
	logger := utils.GetLogger()

	if entry != models.EntryCombined && entry != models.EntryBrand {
		return nil, fmt.Errorf("%w: entry %q", ErrUnknownField, entry)
	}

	existing, err := s.Sessions.Load(ctx, id.ID)
	if err != nil && !errors.Is(err, ErrNoSession) {
		return nil, err
	}
	if existing != nil && (entry == models.EntryCombined || existing.IsBrandFlow()) {
		logger.Debug("Restored onboarding draft", zap.String("userID", id.ID), zap.Int("step", existing.Step))
		return existing, nil
	}

	defaults := models.Row{"email": id.Email}
	if entry == models.EntryBrand {
		defaults["role"] = string(models.RoleBrand)
	}
	if err := s.Rows.EnsureRow(ctx, models.TableUsers, models.Row{"id": id.ID}, defaults); err != nil {
		return nil, fmt.Errorf("failed to ensure user row: %w", err)
	}

	if existing != nil {
		if err := s.Sessions.Clear(ctx, id.ID); err != nil {
			return nil, err
		}
	}
	session := NewSession(id, entry, s.now())
	if err := s.Sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	logger.Info("Started onboarding", zap.String("userID", id.ID), zap.String("entry", string(entry)))
	return session, nil
}

func (s *DefaultOnboardingService) GetSession(ctx context.Context, userID string) (*models.WizardSession, error) {
	return s.Sessions.Load(ctx, userID)
}

// Abandon drops the draft and any staged files.
func (s *DefaultOnboardingService) Abandon(ctx context.Context, userID string) error {
	if _, err := s.Sessions.Load(ctx, userID); err != nil {
		return err
	}
	if err := s.Sessions.Clear(ctx, userID); err != nil {
		return err
	}
	utils.GetLogger().Info("Abandoned onboarding draft", zap.String("userID", userID))
	return nil
}

// Apply reduces action on the stored draft inside a store update, so concurrent edits of the same
// user are applied one after the other. Validation and file size failures are saved too so the
// message stays visible on the session. Edits are refused while a submission runs.
func (s *DefaultOnboardingService) Apply(ctx context.Context, userID string, action Action) (*models.WizardSession, error) {
	return s.Sessions.Update(ctx, userID, func(session *models.WizardSession) (bool, error) {
		err := Reduce(session, action)
		if !persistsOnError(err) {
			return false, err
		}
		session.UpdatedAt = s.now()
		return true, err
	})
}

// AttachProfilePicture stages a profile picture; the bytes are kept next to the draft until submit.
func (s *DefaultOnboardingService) AttachProfilePicture(ctx context.Context, userID string, file models.StagedFile, data []byte) (*models.WizardSession, error) {
	file.Size = int64(len(data))
	session, err := s.Apply(ctx, userID, AttachProfilePicture{File: file})
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			if derr := s.Sessions.DeleteFile(ctx, userID, FileProfilePicture); derr != nil {
				utils.GetLogger().Warn("Failed to drop staged profile picture", zap.String("userID", userID), zap.Error(derr))
			}
		}
		return session, err
	}
	if err := s.Sessions.SaveFile(ctx, userID, FileProfilePicture, data); err != nil {
		return nil, err
	}
	return session, nil
}

// AttachLogo stages the brand logo.
func (s *DefaultOnboardingService) AttachLogo(ctx context.Context, userID string, file models.StagedFile, data []byte) (*models.WizardSession, error) {
	file.Size = int64(len(data))
	session, err := s.Apply(ctx, userID, AttachLogo{File: file})
	if err != nil {
		return session, err
	}
	if err := s.Sessions.SaveFile(ctx, userID, FileLogo, data); err != nil {
		return nil, err
	}
	return session, nil
}

// Status reports whether the user already finished onboarding and the role on their users row.
func (s *DefaultOnboardingService) Status(ctx context.Context, userID string) (*models.OnboardingStatus, error) {
	match := models.Row{"user_id": userID}
	profiles, err := s.Rows.CountRows(ctx, models.TableSocialProfiles, match)
	if err != nil {
		return nil, fmt.Errorf("failed to count social profiles: %w", err)
	}
	brands, err := s.Rows.CountRows(ctx, models.TableBrands, match)
	if err != nil {
		return nil, fmt.Errorf("failed to count brands: %w", err)
	}
	status := &models.OnboardingStatus{HasOnboarding: profiles > 0 || brands > 0}

	user, err := s.Rows.FindRow(ctx, models.TableUsers, models.Row{"id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if role, ok := user["role"].(string); ok && role != "" {
		status.Role = &role
	}
	return status, nil
}
