package models

// SettingSummarizerAPIKey is the settings key holding the user-supplied API key
const SettingSummarizerAPIKey = "summarizer_api_key"

// SettingsStatus describes the enrichment setup without exposing the key
type SettingsStatus struct {
	EnrichmentEnabled bool `json:"enrichmentEnabled"`
	APIKeyConfigured  bool `json:"apiKeyConfigured"`
	APIKeyFromConfig  bool `json:"apiKeyFromConfig"`
}

// APIKeyRequest is the body of PUT /v1/settings/api-key
type APIKeyRequest struct {
	APIKey string `json:"apiKey" form:"apiKey"`
}

// NeedsSetup reports whether the one-time key prompt should be shown
func (s *SettingsStatus) NeedsSetup() bool {
	return s.EnrichmentEnabled && !s.APIKeyConfigured
}
