package library_test

import (
	"context"
	"testing"

	"github.com/blackwell-systems/papershelf/internal/library"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_DefaultsOnFirstRead(t *testing.T) {
	settings := library.NewSettings(openStore(t))
	ctx := context.Background()

	us, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "light", us.Theme)
	assert.Equal(t, "en", us.Language)
	assert.False(t, us.ExternalSyncEnabled)
	assert.NotNil(t, us.Preferences)

	again, err := settings.Get(ctx)
	require.NoError(t, err)
	assert.True(t, us.CreatedAt.Equal(again.CreatedAt))
}

func TestSettings_Update(t *testing.T) {
	settings := library.NewSettings(openStore(t))
	ctx := context.Background()

	us, err := settings.Update(ctx, library.SettingsUpdate{
		Theme:       library.Some("dark"),
		Preferences: library.Some(map[string]any{"list_columns": []any{"id", "title"}}),
	})
	require.NoError(t, err)
	assert.Equal(t, "dark", us.Theme)
	assert.Equal(t, "en", us.Language)
	assert.Equal(t, []any{"id", "title"}, us.Preferences["list_columns"])

	_, err = settings.Update(ctx, library.SettingsUpdate{Theme: library.Some("")})
	assert.ErrorIs(t, err, library.ErrValidation)
}

func TestSettings_Mirror(t *testing.T) {
	settings := library.NewSettings(openStore(t))
	ctx := context.Background()

	enabled, _, err := settings.Mirror(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)

	_, err = settings.Update(ctx, library.SettingsUpdate{
		ExternalSyncEnabled: library.Some(true),
		ExternalSyncPath:    library.Some("/mnt/cloud/papers"),
	})
	require.NoError(t, err)

	enabled, path, err := settings.Mirror(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, "/mnt/cloud/papers", path)

	_, err = settings.Update(ctx, library.SettingsUpdate{
		ExternalSyncEnabled: library.Some(true),
		ExternalSyncPath:    library.Some(""),
	})
	assert.ErrorIs(t, err, library.ErrValidation)

	_, err = settings.Update(ctx, library.SettingsUpdate{ExternalSyncEnabled: library.Some(false)})
	require.NoError(t, err)
	enabled, path, err = settings.Mirror(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, "/mnt/cloud/papers", path, "disabling keeps the stored path")
}
