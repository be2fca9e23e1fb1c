package driving

import "github.com/custodia-labs/wikicorpus/internal/core/domain"

// SettingsService resolves run settings from config file and environment.
type SettingsService interface {
	// Get returns settings with defaults applied and overrides resolved.
	Get() (*domain.Settings, error)
}
