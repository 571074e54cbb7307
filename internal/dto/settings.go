package dto

import "github.com/khalidalhothifi/expense-manager/internal/core/domain"

// SaveSettingsRequest carries the settings sections to persist. Nil
// sections are left untouched.
type SaveSettingsRequest struct {
	SMTP      *domain.SMTPSettings                                `json:"smtp"`
	Templates map[domain.NotificationTrigger]domain.EmailTemplate `json:"templates"`
}

// SettingsResponse returns the full notification settings. The SMTP
// password is decrypted for the caller; managers only.
type SettingsResponse struct {
	SMTP      domain.SMTPSettings                                 `json:"smtp"`
	Templates map[domain.NotificationTrigger]domain.EmailTemplate `json:"templates"`
}

// ToSettingsResponse converts domain settings to the response DTO.
func ToSettingsResponse(s *domain.NotificationSettings) SettingsResponse {
	return SettingsResponse{SMTP: s.SMTP, Templates: s.Templates}
}
