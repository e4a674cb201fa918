package onboarding

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"collabhub/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

const testSessionTTL = time.Hour

// forEachStore runs fn against the memory store and against the Redis store on an in-process
// server. advance moves the store's clock forward.
func forEachStore(t *testing.T, fn func(t *testing.T, store SessionStore, advance func(time.Duration))) {
	t.Run("memory", func(t *testing.T) {
		store := NewMemorySessionStore()
		var mu sync.Mutex
		now := fixedNow
		store.now = func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}
		fn(t, store, func(d time.Duration) {
			mu.Lock()
			now = now.Add(d)
			mu.Unlock()
		})
	})
	t.Run("redis", func(t *testing.T) {
		_, store, mr := newMiniredisStore(t)
		fn(t, store, mr.FastForward)
	})
}

func newMiniredisStore(t *testing.T) (*redis.Client, *RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, NewRedisSessionStore(client, testSessionTTL), mr
}

func TestSessionStoreBrandDraftRoundTrip(t *testing.T) {
	forEachStore(t, func(t *testing.T, store SessionStore, _ func(time.Duration)) {
		ctx := context.Background()

		s := NewSession(ana, models.EntryBrand, fixedNow)
		s.Step = 3
		s.Brand = validBrand()
		s.Brand.Logo = &models.StagedFile{Name: "logo.png", ContentType: "image/png", Size: 3}
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}

		s.Brand.BrandName = "mutated after save"
		got, err := store.Load(ctx, ana.ID)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if got.Brand.BrandName != "Acme" {
			t.Fatal("store shares state with the caller")
		}
		want := validBrand()
		want.Logo = &models.StagedFile{Name: "logo.png", ContentType: "image/png", Size: 3}
		if !reflect.DeepEqual(got.Brand, want) || got.Step != 3 || !got.IsBrandFlow() {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got.Brand, want)
		}
	})
}

func TestSessionStoreFilesAndClear(t *testing.T) {
	forEachStore(t, func(t *testing.T, store SessionStore, _ func(time.Duration)) {
		ctx := context.Background()
		if err := store.Save(ctx, NewSession(ana, models.EntryCombined, fixedNow)); err != nil {
			t.Fatalf("save: %v", err)
		}
		if err := store.SaveFile(ctx, ana.ID, FileProfilePicture, []byte("png")); err != nil {
			t.Fatalf("save file: %v", err)
		}
		if err := store.SaveFile(ctx, ana.ID, FileLogo, []byte("svg")); err != nil {
			t.Fatalf("save file: %v", err)
		}

		data, err := store.LoadFile(ctx, ana.ID, FileProfilePicture)
		if err != nil || string(data) != "png" {
			t.Fatalf("load file: %q %v", data, err)
		}
		if err := store.DeleteFile(ctx, ana.ID, FileLogo); err != nil {
			t.Fatalf("delete file: %v", err)
		}
		if data, err := store.LoadFile(ctx, ana.ID, FileLogo); err != nil || data != nil {
			t.Fatalf("deleted logo should load as nil, got %q %v", data, err)
		}

		if err := store.Clear(ctx, ana.ID); err != nil {
			t.Fatalf("clear: %v", err)
		}
		if _, err := store.Load(ctx, ana.ID); !errors.Is(err, ErrNoSession) {
			t.Fatalf("expected ErrNoSession, got %v", err)
		}
		if data, _ := store.LoadFile(ctx, ana.ID, FileProfilePicture); data != nil {
			t.Fatal("clear should drop staged files")
		}
	})
}

func TestSessionStoreSubmitLock(t *testing.T) {
	forEachStore(t, func(t *testing.T, store SessionStore, advance func(time.Duration)) {
		ctx := context.Background()

		if ok, err := store.AcquireSubmitLock(ctx, ana.ID, time.Minute); err != nil || !ok {
			t.Fatalf("first acquire should succeed: %v %v", ok, err)
		}
		if ok, _ := store.AcquireSubmitLock(ctx, ana.ID, time.Minute); ok {
			t.Fatal("second acquire should fail while held")
		}
		if ok, _ := store.AcquireSubmitLock(ctx, "someone-else", time.Minute); !ok {
			t.Fatal("locks are per user")
		}
		advance(2 * time.Minute)
		if ok, _ := store.AcquireSubmitLock(ctx, ana.ID, time.Minute); !ok {
			t.Fatal("expired lock should be acquirable")
		}
		if err := store.ReleaseSubmitLock(ctx, ana.ID); err != nil {
			t.Fatalf("release: %v", err)
		}
		if ok, _ := store.AcquireSubmitLock(ctx, ana.ID, time.Minute); !ok {
			t.Fatal("released lock should be acquirable")
		}
	})
}

func TestSessionStoreUpdate(t *testing.T) {
	errBoom := errors.New("boom")
	forEachStore(t, func(t *testing.T, store SessionStore, _ func(time.Duration)) {
		ctx := context.Background()

		called := false
		_, err := store.Update(ctx, ana.ID, func(*models.WizardSession) (bool, error) {
			called = true
			return true, nil
		})
		if !errors.Is(err, ErrNoSession) || called {
			t.Fatalf("missing draft: err %v, called %v", err, called)
		}

		if err := store.Save(ctx, NewSession(ana, models.EntryCombined, fixedNow)); err != nil {
			t.Fatalf("save: %v", err)
		}

		got, err := store.Update(ctx, ana.ID, func(s *models.WizardSession) (bool, error) {
			s.Step = 4
			return false, errBoom
		})
		if !errors.Is(err, errBoom) || got == nil || got.Step != 4 {
			t.Fatalf("unsaved update should return the edited draft and fn's error, got %+v %v", got, err)
		}
		if s, _ := store.Load(ctx, ana.ID); s.Step != 0 {
			t.Fatalf("unsaved update was persisted: step %d", s.Step)
		}

		if _, err := store.Update(ctx, ana.ID, func(s *models.WizardSession) (bool, error) {
			s.StepError = "kept"
			return true, errBoom
		}); !errors.Is(err, errBoom) {
			t.Fatalf("expected fn's error, got %v", err)
		}
		if s, _ := store.Load(ctx, ana.ID); s.StepError != "kept" {
			t.Fatal("saved update should persist even when fn returns an error")
		}

		if ok, _ := store.AcquireSubmitLock(ctx, ana.ID, time.Minute); !ok {
			t.Fatal("lock should be free")
		}
		called = false
		if _, err := store.Update(ctx, ana.ID, func(*models.WizardSession) (bool, error) {
			called = true
			return true, nil
		}); !errors.Is(err, ErrSubmissionInProgress) || called {
			t.Fatalf("update under submit lock: err %v, called %v", err, called)
		}
	})
}

func TestSessionStoreConcurrentUpdatesAllApply(t *testing.T) {
	forEachStore(t, func(t *testing.T, store SessionStore, _ func(time.Duration)) {
		ctx := context.Background()
		s := NewSession(ana, models.EntryCombined, fixedNow)
		s.Role = models.RoleCreator
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("save: %v", err)
		}

		var wg sync.WaitGroup
		errs := make(chan error, len(models.CreatorPlatforms))
		for _, p := range models.CreatorPlatforms {
			wg.Add(1)
			go func(p models.Platform) {
				defer wg.Done()
				_, err := store.Update(ctx, ana.ID, func(s *models.WizardSession) (bool, error) {
					return true, Reduce(s, TogglePlatform{Platform: p})
				})
				errs <- err
			}(p)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("update: %v", err)
			}
		}

		got, _ := store.Load(ctx, ana.ID)
		if len(got.SelectedPlatforms) != len(models.CreatorPlatforms) {
			t.Fatalf("lost a concurrent toggle: %v", got.SelectedPlatforms)
		}
	})
}

func TestRedisSessionStoreSlidingTTL(t *testing.T) {
	_, store, mr := newMiniredisStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, NewSession(ana, models.EntryCombined, fixedNow)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveFile(ctx, ana.ID, FileProfilePicture, []byte("png")); err != nil {
		t.Fatalf("save file: %v", err)
	}
	mr.FastForward(testSessionTTL / 2)

	if _, err := store.Update(ctx, ana.ID, func(s *models.WizardSession) (bool, error) {
		s.Step = 1
		return true, nil
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if ttl := mr.TTL(sessionKey(ana.ID)); ttl != testSessionTTL {
		t.Fatalf("draft TTL should be refreshed, got %v", ttl)
	}
	if ttl := mr.TTL(fileKey(ana.ID, FileProfilePicture)); ttl != testSessionTTL {
		t.Fatalf("staged file TTL should follow the draft, got %v", ttl)
	}

	mr.FastForward(testSessionTTL + time.Second)
	if _, err := store.Load(ctx, ana.ID); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expired draft should be gone, got %v", err)
	}
	if data, _ := store.LoadFile(ctx, ana.ID, FileProfilePicture); data != nil {
		t.Fatal("expired staged file should be gone")
	}
}

func TestRedisSessionStoreUpdateRetriesOnConflict(t *testing.T) {
	client, store, _ := newMiniredisStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, NewSession(ana, models.EntryCombined, fixedNow)); err != nil {
		t.Fatalf("save: %v", err)
	}

	attempts := 0
	got, err := store.Update(ctx, ana.ID, func(s *models.WizardSession) (bool, error) {
		attempts++
		if attempts == 1 {
			// A write by another request between the read and the commit.
			other := NewSession(ana, models.EntryCombined, fixedNow)
			other.Personal.Country = "Kenya"
			if err := NewRedisSessionStore(client, testSessionTTL).Save(ctx, other); err != nil {
				t.Fatalf("concurrent save: %v", err)
			}
		}
		s.Step = 2
		return true, nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected one retry, got %d attempts", attempts)
	}
	if got.Personal.Country != "Kenya" || got.Step != 2 {
		t.Fatalf("retry should run on the fresh draft, got %+v", got)
	}
}
