package config

const (
	// FeatureValidateYml checks flow definitions locally before they are uploaded.
	FeatureValidateYml = "validate_yml"
	// FeatureLatestJobs makes refresh also fetch the latest job of every flow.
	FeatureLatestJobs = "latest_jobs"
	// FeatureAgents makes refresh also list the build agents.
	FeatureAgents = "agents"
)

// DefaultFeatureValues defines the default values for each feature
var DefaultFeatureValues = map[string]bool{
	FeatureValidateYml: true,
	FeatureLatestJobs:  true,
	FeatureAgents:      true,
}

// IsFeatureEnabled checks if a feature is enabled in the configuration.
func (c *Config) IsFeatureEnabled(feature string) bool {
	value, exists := c.Features[feature]
	if !exists {
		return DefaultFeatureValues[feature]
	}
	return value
}
