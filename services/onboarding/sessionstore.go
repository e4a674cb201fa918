package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"collabhub/models"
)

// FileKind names a staged upload slot of a session.
type FileKind string

const (
	FileProfilePicture FileKind = "profile-picture"
	FileLogo           FileKind = "logo"
)

// UpdateFunc edits a draft in place. save reports whether the draft should be written back; err is
// handed to the caller of Update either way.
type UpdateFunc func(s *models.WizardSession) (save bool, err error)

// SessionStore persists wizard drafts between requests.
type SessionStore interface {
	// Load returns ErrNoSession when the user has no draft.
	Load(ctx context.Context, userID string) (*models.WizardSession, error)
	Save(ctx context.Context, s *models.WizardSession) error
	// Update runs fn on the current draft and saves it when fn asks to, atomically with respect to
	// other writers of the same user. It fails with ErrSubmissionInProgress while the submit lock
	// is held. fn may run more than once and must only touch the session it is given.
	Update(ctx context.Context, userID string, fn UpdateFunc) (*models.WizardSession, error)
	// Clear drops the draft and its staged files.
	Clear(ctx context.Context, userID string) error

	SaveFile(ctx context.Context, userID string, kind FileKind, data []byte) error
	// LoadFile returns nil data when nothing is staged.
	LoadFile(ctx context.Context, userID string, kind FileKind) ([]byte, error)
	DeleteFile(ctx context.Context, userID string, kind FileKind) error

	// AcquireSubmitLock returns false when another submission holds the lock.
	AcquireSubmitLock(ctx context.Context, userID string, ttl time.Duration) (bool, error)
	ReleaseSubmitLock(ctx context.Context, userID string) error
}

// MemorySessionStore keeps drafts in process memory. Snapshots go through JSON so callers never
// share a session value with the store.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	files    map[string][]byte
	locks    map[string]time.Time
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string][]byte),
		files:    make(map[string][]byte),
		locks:    make(map[string]time.Time),
		now:      time.Now,
	}
}

func fileSlot(userID string, kind FileKind) string {
	return userID + ":" + string(kind)
}

func (m *MemorySessionStore) Load(ctx context.Context, userID string) (*models.WizardSession, error) {
	m.mu.Lock()
	data, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNoSession
	}
	var s models.WizardSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal onboarding session: %w", err)
	}
	return &s, nil
}

func (m *MemorySessionStore) Save(ctx context.Context, s *models.WizardSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal onboarding session: %w", err)
	}
	m.mu.Lock()
	m.sessions[s.UserID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) Update(ctx context.Context, userID string, fn UpdateFunc) (*models.WizardSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if until, held := m.locks[userID]; held && m.now().Before(until) {
		return nil, ErrSubmissionInProgress
	}
	data, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	var s models.WizardSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal onboarding session: %w", err)
	}
	save, fnErr := fn(&s)
	if !save {
		return &s, fnErr
	}
	data, err := json.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal onboarding session: %w", err)
	}
	m.sessions[userID] = data
	return &s, fnErr
}

func (m *MemorySessionStore) Clear(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
	delete(m.files, fileSlot(userID, FileProfilePicture))
	delete(m.files, fileSlot(userID, FileLogo))
	return nil
}

func (m *MemorySessionStore) SaveFile(ctx context.Context, userID string, kind FileKind, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	m.mu.Lock()
	m.files[fileSlot(userID, kind)] = buf
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) LoadFile(ctx context.Context, userID string, kind FileKind) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[fileSlot(userID, kind)]
	if !ok {
		return nil, nil
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (m *MemorySessionStore) DeleteFile(ctx context.Context, userID string, kind FileKind) error {
	m.mu.Lock()
	delete(m.files, fileSlot(userID, kind))
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore) AcquireSubmitLock(ctx context.Context, userID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if until, held := m.locks[userID]; held && now.Before(until) {
		return false, nil
	}
	m.locks[userID] = now.Add(ttl)
	return true, nil
}

func (m *MemorySessionStore) ReleaseSubmitLock(ctx context.Context, userID string) error {
	m.mu.Lock()
	delete(m.locks, userID)
	m.mu.Unlock()
	return nil
}
