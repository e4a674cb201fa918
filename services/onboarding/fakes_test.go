package onboarding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"collabhub/models"
)

type rowCall struct {
	op    string
	table string
	match models.Row
	row   models.Row
	keys  []string
}

// fakeRows records every write and keeps rows per table. failOn makes the named op fail.
type fakeRows struct {
	mu     sync.Mutex
	calls  []rowCall
	tables map[string][]models.Row
	failOn map[string]error
}

func newFakeRows() *fakeRows {
	return &fakeRows{tables: map[string][]models.Row{}, failOn: map[string]error{}}
}

func matches(row, match models.Row) bool {
	for k, v := range match {
		if row[k] != v {
			return false
		}
	}
	return true
}

func (f *fakeRows) record(c rowCall) error {
	f.calls = append(f.calls, c)
	return f.failOn[c.op+":"+c.table]
}

func (f *fakeRows) UpdateRow(ctx context.Context, table string, match, fields models.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(rowCall{op: "update", table: table, match: match, row: fields}); err != nil {
		return err
	}
	n := 0
	for _, row := range f.tables[table] {
		if matches(row, match) {
			for k, v := range fields {
				row[k] = v
			}
			n++
		}
	}
	if n == 0 {
		return errors.New("no matching row")
	}
	return nil
}

func (f *fakeRows) InsertRow(ctx context.Context, table string, row models.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(rowCall{op: "insert", table: table, row: row}); err != nil {
		return err
	}
	f.tables[table] = append(f.tables[table], copyRow(row))
	return nil
}

func (f *fakeRows) UpsertRow(ctx context.Context, table string, row models.Row, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(rowCall{op: "upsert", table: table, row: row, keys: keys}); err != nil {
		return err
	}
	match := models.Row{}
	for _, k := range keys {
		match[k] = row[k]
	}
	for i, existing := range f.tables[table] {
		if matches(existing, match) {
			f.tables[table][i] = copyRow(row)
			return nil
		}
	}
	f.tables[table] = append(f.tables[table], copyRow(row))
	return nil
}

func (f *fakeRows) FindRow(ctx context.Context, table string, match models.Row) (models.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.tables[table] {
		if matches(row, match) {
			return copyRow(row), nil
		}
	}
	return nil, nil
}

func (f *fakeRows) CountRows(ctx context.Context, table string, match models.Row) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, row := range f.tables[table] {
		if matches(row, match) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRows) EnsureRow(ctx context.Context, table string, match, defaults models.Row) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(rowCall{op: "ensure", table: table, match: match, row: defaults}); err != nil {
		return err
	}
	for _, row := range f.tables[table] {
		if matches(row, match) {
			return nil
		}
	}
	row := copyRow(defaults)
	for k, v := range match {
		row[k] = v
	}
	f.tables[table] = append(f.tables[table], row)
	return nil
}

func (f *fakeRows) writes() []rowCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []rowCall
	for _, c := range f.calls {
		if c.op != "ensure" {
			out = append(out, c)
		}
	}
	return out
}

func copyRow(row models.Row) models.Row {
	out := make(models.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (f *fakeBlobs) Upload(ctx context.Context, bucket, key string, r io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.objects[bucket+"/"+key] = data
	f.mu.Unlock()
	return nil
}

func (f *fakeBlobs) PublicURL(bucket, key string) string {
	return "https://blobs.test/" + bucket + "/" + key
}

type fakeStatusError struct {
	status int
	detail string
}

func (e *fakeStatusError) Error() string   { return fmt.Sprintf("status %d", e.status) }
func (e *fakeStatusError) HTTPStatus() int { return e.status }
func (e *fakeStatusError) Detail() string  { return e.detail }

type fakeChannels struct {
	mu    sync.Mutex
	calls []string
	resp  *models.ChannelListResponse
	err   error
}

func (f *fakeChannels) FetchChannelInfo(ctx context.Context, channelID string) (*models.ChannelListResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, channelID)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.resp, f.err
}

type fakeReaper struct {
	scheduled []string
}

func (f *fakeReaper) ScheduleCleanup(ctx context.Context, bucket, key string) error {
	f.scheduled = append(f.scheduled, bucket+"/"+key)
	return nil
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	svc      *DefaultOnboardingService
	sessions *MemorySessionStore
	rows     *fakeRows
	blobs    *fakeBlobs
	channels *fakeChannels
	reaper   *fakeReaper
}

func newTestEnv() *testEnv {
	env := &testEnv{
		sessions: NewMemorySessionStore(),
		rows:     newFakeRows(),
		blobs:    newFakeBlobs(),
		channels: &fakeChannels{},
		reaper:   &fakeReaper{},
	}
	env.svc = &DefaultOnboardingService{
		Sessions: env.sessions,
		Rows:     env.rows,
		Blobs:    env.blobs,
		Channels: env.channels,
		Reaper:   env.reaper,
		Now:      func() time.Time { return fixedNow },
	}
	return env
}

var ana = models.Identity{ID: "user-ana", Email: "ana@example.com", Name: "Ana"}

// mustApply fails the test on any reducer error.
func mustApply(t testing.TB, env *testEnv, userID string, actions ...Action) *models.WizardSession {
	t.Helper()
	var s *models.WizardSession
	var err error
	for _, a := range actions {
		s, err = env.svc.Apply(context.Background(), userID, a)
		if err != nil {
			t.Fatalf("apply %T: %v", a, err)
		}
	}
	return s
}

// anaActions walks the creator flow for Ana with Instagram only, up to the review step.
func anaActions() []Action {
	return []Action{
		SelectRole{Role: models.RoleCreator},
		Next{},
		UpdatePersonal{Personal: models.PersonalDetails{Name: "Ana", Age: "25", Gender: "Female", Category: "Tech", Country: "USA"}},
		Next{},
		TogglePlatform{Platform: models.PlatformInstagram},
		Next{},
		SetPlatformDetails{Platform: models.PlatformInstagram, Details: models.ProfileDetails{ProfileURL: "ig.com/ana", Followers: "1000", Posts: "50"}},
		Next{},
		SetPricing{Platform: models.PlatformInstagram, Pricing: PricingInput{PerPostCost: "20", PerStoryCost: "5", PerReelCost: "15", Currency: "USD"}},
		Next{},
		Next{},
	}
}

func validBrand() models.BrandData {
	b := models.NewBrandData()
	b.BrandName = "Acme"
	b.WebsiteURL = "https://acme.test"
	b.Industry = "Tech"
	b.CompanySize = "11-50"
	b.Location = "Berlin"
	b.Description = "Rockets"
	b.ContactPerson = "Wile"
	b.ContactEmail = "wile@acme.test"
	b.Platforms = []string{"Instagram"}
	b.SocialLinks = map[string]string{"instagram_url": "https://instagram.com/acme"}
	b.CollaborationTypes = []string{"Giveaways"}
	b.PreferredCreatorCategories = []string{"Tech"}
	b.BrandValues = []string{"Innovation"}
	b.PreferredTone = []string{"Bold"}
	return b
}
