package repositories

import "context"

// Setting keys used in the system_settings store.
const (
	SettingKeySMTP      = "smtp"
	SettingKeyTemplates = "templates"
)

// SettingsRepository is a small key/value store for system-wide settings.
// Values are opaque JSON documents; the settings service owns their shape.
type SettingsRepository interface {
	// GetSetting returns the raw JSON value stored under key, or
	// apperrors.ErrNotFound if the key has never been written.
	GetSetting(ctx context.Context, key string) ([]byte, error)

	// SaveSetting upserts the raw JSON value under key.
	SaveSetting(ctx context.Context, key string, value []byte) error
}
