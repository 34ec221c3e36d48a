package service

import (
	"errors"
	"focusread_backend/internal/model"
	"focusread_backend/internal/util"
	"testing"
)

// mockBlockListStore 内存版 BlockListStore
type mockBlockListStore struct {
	apps   []model.BlockedApp
	sites  []model.BlockedWebsite
	nextID uint
}

func (m *mockBlockListStore) AppsByUserID(userID uint) ([]model.BlockedApp, error) {
	var out []model.BlockedApp
	for _, a := range m.apps {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockBlockListStore) WebsitesByUserID(userID uint) ([]model.BlockedWebsite, error) {
	var out []model.BlockedWebsite
	for _, s := range m.sites {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockBlockListStore) CreateApp(app *model.BlockedApp) error {
	m.nextID++
	app.ID = m.nextID
	m.apps = append(m.apps, *app)
	return nil
}

func (m *mockBlockListStore) DeleteApp(id, userID uint) error {
	for i, a := range m.apps {
		if a.ID == id && a.UserID == userID {
			m.apps = append(m.apps[:i], m.apps[i+1:]...)
			return nil
		}
	}
	return util.ErrBlockEntryNotFound
}

func (m *mockBlockListStore) CreateWebsite(site *model.BlockedWebsite) error {
	m.nextID++
	site.ID = m.nextID
	m.sites = append(m.sites, *site)
	return nil
}

func (m *mockBlockListStore) DeleteWebsite(id, userID uint) error {
	for i, s := range m.sites {
		if s.ID == id && s.UserID == userID {
			m.sites = append(m.sites[:i], m.sites[i+1:]...)
			return nil
		}
	}
	return util.ErrBlockEntryNotFound
}

func TestEnforceExcludesAllowedApps(t *testing.T) {
	store := &mockBlockListStore{}
	s := NewBlockingService(store, nil)

	s.AddApp(1, "Messages", "com.android.mms")
	s.AddApp(1, "Contacts", "com.android.contacts")
	s.AddApp(1, "Shorts", "com.example.shorts")
	s.AddWebsite(1, "https://example.com")

	config, err := s.Enforce(1, false)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}

	if len(config.BlockApps) != 1 || config.BlockApps[0] != "com.example.shorts" {
		t.Fatalf("expected allow-listed apps excluded, got %v", config.BlockApps)
	}
	if len(config.BlockWebsites) != 1 || config.BlockWebsites[0] != "https://example.com" {
		t.Fatalf("expected website unfiltered, got %v", config.BlockWebsites)
	}
	if len(config.AllowedApps) != 2 {
		t.Fatalf("expected fixed allow-list returned, got %v", config.AllowedApps)
	}
}

func TestEnforceSkipsEmptyPackageNames(t *testing.T) {
	store := &mockBlockListStore{}
	s := NewBlockingService(store, nil)

	s.AddApp(1, "Unknown", "")
	s.AddApp(1, "Game", "com.example.game")

	config, err := s.Enforce(1, false)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(config.BlockApps) != 1 || config.BlockApps[0] != "com.example.game" {
		t.Fatalf("expected empty package names skipped, got %v", config.BlockApps)
	}
}

func TestEnforceHardLockPassthrough(t *testing.T) {
	s := NewBlockingService(&mockBlockListStore{}, nil)

	for _, hardLock := range []bool{true, false} {
		config, err := s.Enforce(1, hardLock)
		if err != nil {
			t.Fatalf("enforce: %v", err)
		}
		if config.HardLock != hardLock {
			t.Fatalf("expected hard lock %t passed through", hardLock)
		}
	}
}

func TestEnforceEmptyListsForNewUser(t *testing.T) {
	s := NewBlockingService(&mockBlockListStore{}, nil)

	config, err := s.Enforce(42, false)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(config.BlockApps) != 0 || len(config.BlockWebsites) != 0 {
		t.Fatalf("expected empty block lists, got %+v", config)
	}
}

func TestRemoveUnknownEntry(t *testing.T) {
	s := NewBlockingService(&mockBlockListStore{}, nil)

	if err := s.RemoveApp(1, 99); !errors.Is(err, util.ErrBlockEntryNotFound) {
		t.Fatalf("expected ErrBlockEntryNotFound, got %v", err)
	}
	if err := s.RemoveWebsite(1, 99); !errors.Is(err, util.ErrBlockEntryNotFound) {
		t.Fatalf("expected ErrBlockEntryNotFound, got %v", err)
	}
}

func TestBlockListsAreScopedPerUser(t *testing.T) {
	store := &mockBlockListStore{}
	s := NewBlockingService(store, nil)

	s.AddApp(1, "Game", "com.example.game")
	s.AddApp(2, "Chat", "com.example.chat")

	config, err := s.Enforce(1, false)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if len(config.BlockApps) != 1 || config.BlockApps[0] != "com.example.game" {
		t.Fatalf("expected only user 1 entries, got %v", config.BlockApps)
	}
}
