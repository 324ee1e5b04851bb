package model

import "time"

// maxRecentExports caps the RecentExports list.
const maxRecentExports = 10

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Configurator defaults applied to new sessions
	DefaultPackageID string          `json:"default_package_id"`
	DefaultStructure StructureConfig `json:"default_structure"`

	// 3D preview auto-rotate
	RotateStep       float64 `json:"rotate_step"`        // degrees per tick
	RotateIntervalMs int     `json:"rotate_interval_ms"` // tick period

	// Host CRM integration for the desktop app; empty base URL = offline
	CrmBaseURL        string `json:"crm_base_url"`
	CrmLeadID         string `json:"crm_lead_id"`
	CrmTimeoutSeconds int    `json:"crm_timeout_seconds"`

	// Application preferences
	RecentExports []string `json:"recent_exports"`
	Theme         string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultPackageID:  "standard-shower",
		DefaultStructure:  DefaultStructure(),
		RotateStep:        2,
		RotateIntervalMs:  40,
		CrmTimeoutSeconds: 15,
		RecentExports:     []string{},
		Theme:             "system",
	}
}

// RotateInterval returns the auto-rotate tick period, falling back to the
// default for non-positive values.
func (c AppConfig) RotateInterval() time.Duration {
	if c.RotateIntervalMs <= 0 {
		return time.Duration(DefaultAppConfig().RotateIntervalMs) * time.Millisecond
	}
	return time.Duration(c.RotateIntervalMs) * time.Millisecond
}

// CrmTimeout returns the per-call timeout for host CRM requests.
func (c AppConfig) CrmTimeout() time.Duration {
	if c.CrmTimeoutSeconds <= 0 {
		return time.Duration(DefaultAppConfig().CrmTimeoutSeconds) * time.Second
	}
	return time.Duration(c.CrmTimeoutSeconds) * time.Second
}

// AddRecentExport moves path to the front of RecentExports.
func (c *AppConfig) AddRecentExport(path string) {
	list := []string{path}
	for _, p := range c.RecentExports {
		if p != path {
			list = append(list, p)
		}
	}
	if len(list) > maxRecentExports {
		list = list[:maxRecentExports]
	}
	c.RecentExports = list
}
