package model

import "fmt"

// AdminSettings is the platform configuration document. It is stored as a
// single JSON blob and merged over defaults on read so older documents pick
// up newly added keys.
type AdminSettings map[string]interface{}

// DefaultAdminSettings returns the full settings document with every key at
// its default value.
func DefaultAdminSettings() AdminSettings {
	return AdminSettings{
		"general": map[string]interface{}{
			"system_name":       "Hospital Management Platform",
			"system_version":    "2.0.0",
			"support_email":     "support@hospitalplatform.com",
			"timezone":          "Asia/Kolkata",
			"date_format":       "DD/MM/YYYY",
			"maintenance_mode":  false,
			"registration_open": true,
		},
		"security": map[string]interface{}{
			"password_min_length":   6,
			"require_special_chars": false,
			"max_login_attempts":    5,
			"lockout_duration_mins": 15,
			"session_timeout_mins":  60,
			"two_factor_enabled":    false,
			"password_expiry_days":  90,
		},
		"notifications": map[string]interface{}{
			"email_enabled":        true,
			"smtp_host":            "smtp.gmail.com",
			"smtp_port":            587,
			"smtp_use_tls":         true,
			"sender_email":         "noreply@hospitalplatform.com",
			"expiry_reminder_days": 7,
			"low_stock_alerts":     true,
		},
		"billing": map[string]interface{}{
			"currency":            "INR",
			"tax_percentage":      18.0,
			"invoice_prefix":      "INV",
			"trial_duration_days": 30,
			"annual_discount_pct": 20.0,
			"payment_grace_days":  7,
		},
		"data": map[string]interface{}{
			"retention_days":        365,
			"auto_backup_enabled":   true,
			"backup_frequency_days": 1,
			"export_format":         "csv",
		},
	}
}

// MergeSettings lays stored values over defaults recursively. Maps are merged
// key by key; any other value in stored wins outright.
func MergeSettings(defaults, stored map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, sv := range stored {
		if dm, ok := out[k].(map[string]interface{}); ok {
			if sm, ok := sv.(map[string]interface{}); ok {
				out[k] = MergeSettings(dm, sm)
				continue
			}
		}
		out[k] = sv
	}
	return out
}

// Validate checks the constraints the platform relies on before a settings
// document is persisted.
func (s AdminSettings) Validate() error {
	general, _ := s["general"].(map[string]interface{})
	if general != nil {
		if name, _ := general["system_name"].(string); name == "" {
			return fmt.Errorf("general.system_name is required")
		}
		if ver, _ := general["system_version"].(string); ver == "" {
			return fmt.Errorf("general.system_version is required")
		}
	}

	if security, ok := s["security"].(map[string]interface{}); ok {
		if n, ok := numberValue(security["password_min_length"]); ok && n < 6 {
			return fmt.Errorf("security.password_min_length must be at least 6")
		}
		if n, ok := numberValue(security["max_login_attempts"]); ok && n < 1 {
			return fmt.Errorf("security.max_login_attempts must be at least 1")
		}
	}

	if notif, ok := s["notifications"].(map[string]interface{}); ok {
		if n, ok := numberValue(notif["smtp_port"]); ok && (n < 1 || n > 65535) {
			return fmt.Errorf("notifications.smtp_port must be between 1 and 65535")
		}
	}

	if data, ok := s["data"].(map[string]interface{}); ok {
		if n, ok := numberValue(data["retention_days"]); ok && n < 1 {
			return fmt.Errorf("data.retention_days must be at least 1")
		}
	}

	return nil
}

// numberValue accepts the numeric shapes JSON decoding produces.
func numberValue(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

type UpdateSettingsRequest struct {
	Settings AdminSettings `json:"settings" binding:"required"`
}
