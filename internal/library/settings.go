package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/papershelf/internal/store"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingsID = 1

// UserSettings holds presentation preferences and the external mirror
// configuration.
type UserSettings struct {
	Theme               string         `json:"theme" yaml:"theme"`
	Language            string         `json:"language" yaml:"language"`
	DateFormat          string         `json:"date_format" yaml:"date_format"`
	Preferences         map[string]any `json:"preferences" yaml:"preferences"`
	ExternalSyncEnabled bool           `json:"external_sync_enabled" yaml:"external_sync_enabled"`
	ExternalSyncPath    string         `json:"external_sync_path" yaml:"external_sync_path"`
	CustomStoragePath   string         `json:"custom_storage_path" yaml:"custom_storage_path"`
	CreatedAt           time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at" yaml:"updated_at"`
}

// SettingsUpdate is a partial settings update.
type SettingsUpdate struct {
	Theme               Optional[string]
	Language            Optional[string]
	DateFormat          Optional[string]
	Preferences         Optional[map[string]any] // replaces the whole map
	ExternalSyncEnabled Optional[bool]
	ExternalSyncPath    Optional[string]
	CustomStoragePath   Optional[string]
}

// Settings is the repository for the singleton settings row.
type Settings struct {
	store *store.Store
	now   func() time.Time
}

// NewSettings returns a Settings repository bound to s.
func NewSettings(s *store.Store) *Settings {
	return &Settings{store: s, now: func() time.Time { return time.Now().UTC() }}
}

// Get returns the settings, creating the default row on first read.
func (s *Settings) Get(ctx context.Context) (UserSettings, error) {
	var m store.SettingsModel
	err := s.store.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		m, err = s.load(tx)
		return err
	})
	if err != nil {
		return UserSettings{}, err
	}
	return settingsFromModel(m), nil
}

func (s *Settings) load(tx *gorm.DB) (store.SettingsModel, error) {
	var m store.SettingsModel
	err := tx.Take(&m, "id = ?", settingsID).Error
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return m, fmt.Errorf("read settings: %w", err)
	}

	now := s.now()
	m = store.SettingsModel{
		ID:          settingsID,
		Theme:       "light",
		Language:    "en",
		DateFormat:  "YYYY-MM-DD",
		Preferences: datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
		return m, fmt.Errorf("create settings: %w", err)
	}
	if err := tx.Take(&m, "id = ?", settingsID).Error; err != nil {
		return m, fmt.Errorf("read settings: %w", err)
	}
	return m, nil
}

// Update applies the set fields of u and returns the new settings.
func (s *Settings) Update(ctx context.Context, u SettingsUpdate) (UserSettings, error) {
	for _, f := range []struct {
		name string
		o    Optional[string]
	}{{"theme", u.Theme}, {"language", u.Language}, {"date_format", u.DateFormat}} {
		if v, ok := f.o.Get(); ok && strings.TrimSpace(v) == "" {
			return UserSettings{}, invalid(f.name, "must not be empty")
		}
	}
	if on, ok := u.ExternalSyncEnabled.Get(); ok && on {
		p, set := u.ExternalSyncPath.Get()
		if set && strings.TrimSpace(p) == "" {
			return UserSettings{}, invalid("external_sync_path", "is required when mirroring is enabled")
		}
	}

	var m store.SettingsModel
	err := s.store.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.load(tx); err != nil {
			return err
		}
		fields := map[string]any{"updated_at": s.now()}
		setField(fields, "theme", u.Theme)
		setField(fields, "language", u.Language)
		setField(fields, "date_format", u.DateFormat)
		if prefs, ok := u.Preferences.Get(); ok {
			fields["preferences"] = datatypes.JSONMap(prefs)
		}
		setField(fields, "external_sync_enabled", u.ExternalSyncEnabled)
		setField(fields, "external_sync_path", u.ExternalSyncPath)
		setField(fields, "custom_storage_path", u.CustomStoragePath)

		if err := tx.Model(&store.SettingsModel{}).Where("id = ?", settingsID).Updates(fields).Error; err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		var err error
		m, err = s.load(tx)
		return err
	})
	if err != nil {
		return UserSettings{}, err
	}
	return settingsFromModel(m), nil
}

// Mirror reports the external mirror configuration.
func (s *Settings) Mirror(ctx context.Context) (bool, string, error) {
	us, err := s.Get(ctx)
	if err != nil {
		return false, "", err
	}
	return us.ExternalSyncEnabled && us.ExternalSyncPath != "", us.ExternalSyncPath, nil
}

func settingsFromModel(m store.SettingsModel) UserSettings {
	prefs := map[string]any(m.Preferences)
	if prefs == nil {
		prefs = map[string]any{}
	}
	return UserSettings{
		Theme:               m.Theme,
		Language:            m.Language,
		DateFormat:          m.DateFormat,
		Preferences:         prefs,
		ExternalSyncEnabled: m.ExternalSyncEnabled,
		ExternalSyncPath:    m.ExternalSyncPath,
		CustomStoragePath:   m.CustomStoragePath,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}
