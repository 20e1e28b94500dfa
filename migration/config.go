// Package migration defines the shared domain types for a store migration run:
// the immutable migration configuration and the structured results each
// planning stage produces.
package migration

// SupportedPlatforms lists the platform identifiers accepted by the API.
var SupportedPlatforms = []string{"shopify", "woocommerce", "magento", "bigcommerce", "ideasoft", "ikas"}

// IsSupportedPlatform reports whether name is a known platform identifier.
func IsSupportedPlatform(name string) bool {
	for _, p := range SupportedPlatforms {
		if p == name {
			return true
		}
	}
	return false
}

// PlatformConfig holds connection details for one platform.
type PlatformConfig struct {
	StoreURL    string         `json:"store_url"`
	AccessToken string         `json:"access_token,omitempty"`
	APIKey      string         `json:"api_key,omitempty"`
	Extra       map[string]any `json:"additional_config,omitempty"`
}

// Config is the immutable input for one migration run.
type Config struct {
	SourcePlatform      string         `json:"source_platform"`
	DestinationPlatform string         `json:"destination_platform"`
	SourceConfig        PlatformConfig `json:"source_config"`
	DestinationConfig   PlatformConfig `json:"destination_config"`
	Options             map[string]any `json:"migration_options,omitempty"`
}

// MaxDurationDays returns the max_duration_days option if set, or 0.
func (c Config) MaxDurationDays() int {
	v, ok := c.Options["max_duration_days"]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}
