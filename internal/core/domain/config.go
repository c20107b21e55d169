package domain

// ProviderConfig is the configuration for a single AI provider as declared in
// config.yaml. It carries both the catalog descriptor fields and the probe
// connection details (base URL, credentials).
type ProviderConfig struct {
	Name         string            `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Type         string            `json:"type" yaml:"type" mapstructure:"type" validate:"required"` // prober type, e.g. "openai", "ollama"
	DisplayName  string            `json:"display_name" yaml:"display_name" mapstructure:"display_name"`
	Priority     int               `json:"priority" yaml:"priority" mapstructure:"priority"`
	APIKey       string            `json:"api_key" yaml:"api_key" mapstructure:"api_key"`
	BaseURL      string            `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	Models       []string          `json:"models" yaml:"models" mapstructure:"models"`
	Capabilities map[string]bool   `json:"capabilities" yaml:"capabilities" mapstructure:"capabilities"`
	Config       map[string]string `json:"config" yaml:"config" mapstructure:"config"`
	Enabled      bool              `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// Descriptor converts the config entry into its catalog descriptor.
func (c ProviderConfig) Descriptor() ProviderDescriptor {
	display := c.DisplayName
	if display == "" {
		display = c.Name
	}
	caps := make(map[TaskType]bool, len(c.Capabilities))
	for k, v := range c.Capabilities {
		if t, ok := ParseTaskType(k); ok {
			caps[t] = v
		}
	}
	return ProviderDescriptor{
		Name:         c.Name,
		DisplayName:  display,
		Priority:     c.Priority,
		Models:       c.Models,
		Capabilities: caps,
		Enabled:      c.Enabled,
	}
}
