package config

import "time"

// DetectorConfig selects the detection backend
type DetectorConfig struct {
	Provider string
	Timeout  time.Duration
}

// HTTPDetectorConfig represents the configuration for the remote detection service
type HTTPDetectorConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// ServerConfig represents the frontend configuration
type ServerConfig struct {
	Frontend      string
	ListenAddress string
	MetricsPath   string
}

// SMTPConfig represents the configuration for the SMTP content filter
type SMTPConfig struct {
	ListenAddress   string
	BlockCritical   bool
	AnalysisTimeout time.Duration
	VerdictHeader   string
	TierHeader      string
	ScoreHeader     string
	PostfixEnabled  bool
	PostfixAddress  string
	PostfixPort     int
	TrustedDomains  []string
}

// CacheConfig represents the optional payload cache configuration
type CacheConfig struct {
	Enabled          bool
	Type             string
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// GetDetector returns the detector configuration
func (c *Config) GetDetector() (DetectorConfig, error) {
	timeout, err := c.GetDuration("detector.timeout")
	if err != nil {
		return DetectorConfig{}, err
	}
	return DetectorConfig{
		Provider: c.GetString("detector.provider"),
		Timeout:  timeout,
	}, nil
}

// GetHTTPDetector returns the remote detection service configuration
func (c *Config) GetHTTPDetector() (HTTPDetectorConfig, error) {
	timeout, err := c.GetDuration("detector.timeout")
	if err != nil {
		return HTTPDetectorConfig{}, err
	}
	return HTTPDetectorConfig{
		Endpoint: c.GetString("detector.http.endpoint"),
		Timeout:  timeout,
	}, nil
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetServer returns the frontend configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		Frontend:      c.GetString("server.frontend"),
		ListenAddress: c.GetString("server.listen_address"),
		MetricsPath:   c.GetString("server.metrics_path"),
	}
}

// GetSMTP returns the SMTP content filter configuration
func (c *Config) GetSMTP() (SMTPConfig, error) {
	timeout, err := c.GetDuration("smtp.analysis_timeout")
	if err != nil {
		return SMTPConfig{}, err
	}
	return SMTPConfig{
		ListenAddress:   c.GetString("smtp.listen_address"),
		BlockCritical:   c.GetBool("smtp.block_critical"),
		AnalysisTimeout: timeout,
		VerdictHeader:   c.GetString("smtp.headers.verdict"),
		TierHeader:      c.GetString("smtp.headers.tier"),
		ScoreHeader:     c.GetString("smtp.headers.score"),
		PostfixEnabled:  c.GetBool("smtp.postfix.enabled"),
		PostfixAddress:  c.GetString("smtp.postfix.address"),
		PostfixPort:     c.GetInt("smtp.postfix.port"),
		TrustedDomains:  c.GetStringSlice("smtp.trusted_domains"),
	}, nil
}

// GetCache returns the payload cache configuration
func (c *Config) GetCache() (CacheConfig, error) {
	ttl, err := c.GetDuration("cache.ttl")
	if err != nil {
		return CacheConfig{}, err
	}
	cleanup, err := c.GetDuration("cache.cleanup_frequency")
	if err != nil {
		return CacheConfig{}, err
	}
	return CacheConfig{
		Enabled:          c.GetBool("cache.enabled"),
		Type:             c.GetString("cache.type"),
		TTL:              ttl,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("cache.sqlite_path"),
		MySQLDSN:         c.GetString("cache.mysql_dsn"),
	}, nil
}
