package onboarding

import (
	"context"
	"io"
	"time"

	"collabhub/models"

	"golang.org/x/sync/singleflight"
)

type OnboardingService interface {
	// Session lifecycle
	Start(ctx context.Context, id models.Identity, entry models.EntryPoint) (*models.WizardSession, error)
	GetSession(ctx context.Context, userID string) (*models.WizardSession, error)
	Abandon(ctx context.Context, userID string) error

	// Form edits and navigation
	Apply(ctx context.Context, userID string, action Action) (*models.WizardSession, error)
	AttachProfilePicture(ctx context.Context, userID string, file models.StagedFile, data []byte) (*models.WizardSession, error)
	AttachLogo(ctx context.Context, userID string, file models.StagedFile, data []byte) (*models.WizardSession, error)
	LookupChannel(ctx context.Context, userID, input string) (*models.WizardSession, error)

	// Submission
	Submit(ctx context.Context, id models.Identity) (*models.SubmitResult, *models.WizardSession, error)
	Status(ctx context.Context, userID string) (*models.OnboardingStatus, error)
}

// RowStore is the remote table store. Rows are plain field maps.
type RowStore interface {
	// UpdateRow sets fields on the rows matching match; it fails when nothing matches.
	UpdateRow(ctx context.Context, table string, match models.Row, fields models.Row) error
	InsertRow(ctx context.Context, table string, row models.Row) error
	// UpsertRow inserts row or updates the existing row with equal conflictKeys values.
	UpsertRow(ctx context.Context, table string, row models.Row, conflictKeys []string) error
	// FindRow returns nil when no row matches.
	FindRow(ctx context.Context, table string, match models.Row) (models.Row, error)
	CountRows(ctx context.Context, table string, match models.Row) (int64, error)
	// EnsureRow inserts defaults merged with match when no row matches; existing rows are untouched.
	EnsureRow(ctx context.Context, table string, match models.Row, defaults models.Row) error
}

// BlobStore is the remote file store.
type BlobStore interface {
	Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) error
	PublicURL(bucket, key string) string
}

// ChannelLookup fetches channel metadata by channel id. Errors exposing HTTPStatus() are
// non-success responses; anything else is treated as a network failure.
type ChannelLookup interface {
	FetchChannelInfo(ctx context.Context, channelID string) (*models.ChannelListResponse, error)
}

// OrphanReaper deletes an uploaded blob later when no row ended up referencing it.
type OrphanReaper interface {
	ScheduleCleanup(ctx context.Context, bucket, key string) error
}

type Options struct {
	SubmitLockTTL time.Duration
	RedirectDelay time.Duration
}

// DefaultOnboardingService is the production implementation.
type DefaultOnboardingService struct {
	Sessions SessionStore
	Rows     RowStore
	Blobs    BlobStore
	Channels ChannelLookup
	// Reaper is optional.
	Reaper  OrphanReaper
	Options Options
	// Now defaults to time.Now.
	Now func() time.Time

	lookups singleflight.Group
}

func (s *DefaultOnboardingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultOnboardingService) lockTTL() time.Duration {
	if s.Options.SubmitLockTTL > 0 {
		return s.Options.SubmitLockTTL
	}
	return 2 * time.Minute
}

func (s *DefaultOnboardingService) redirectDelay() time.Duration {
	if s.Options.RedirectDelay > 0 {
		return s.Options.RedirectDelay
	}
	return 1200 * time.Millisecond
}
