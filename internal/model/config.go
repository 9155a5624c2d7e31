package model

import "time"

// Config holds the full stage configuration
type Config struct {
	HTTP       HTTPConfig       `yaml:"http" mapstructure:"http"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Stage      StageConfig      `yaml:"stage" mapstructure:"stage"`
	Origin     OriginConfig     `yaml:"origin" mapstructure:"origin"`
	Policy     PolicyConfig     `yaml:"policy" mapstructure:"policy"`
}

// HTTPConfig configures the origin-post liveness prober
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	CaptureTitle  bool          `yaml:"capture_title" mapstructure:"capture_title"`
}

// ValidationConfig configures the external validation service client
type ValidationConfig struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey      string        `yaml:"-" mapstructure:"-"`
	Model       string        `yaml:"model" mapstructure:"model"`
	BatchSize   int           `yaml:"batch_size" mapstructure:"batch_size"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
}

// StageConfig configures orchestration: pacing, filtering, and the
// allow-list of terminal statuses to keep
type StageConfig struct {
	ProbeDelay       time.Duration `yaml:"probe_delay" mapstructure:"probe_delay"`
	BatchDelay       time.Duration `yaml:"batch_delay" mapstructure:"batch_delay"`
	CheckOriginLinks bool          `yaml:"check_origin_links" mapstructure:"check_origin_links"`
	DropInaccessible bool          `yaml:"drop_inaccessible" mapstructure:"drop_inaccessible"`
	KeepStatuses     []string      `yaml:"keep_statuses" mapstructure:"keep_statuses"`
}

// OriginConfig names the origin platform's domain set. A host matches when
// it equals a listed domain or is a subdomain of one.
type OriginConfig struct {
	Domains []string `yaml:"domains" mapstructure:"domains"`
}

// PolicyConfig configures the admission policy
type PolicyConfig struct {
	StrictVerification bool     `yaml:"strict_verification" mapstructure:"strict_verification"`
	VagueMarkers       []string `yaml:"vague_markers" mapstructure:"vague_markers"`
}

// DefaultConfig returns the stage defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       10 * time.Second,
			UserAgent:     "factgate/0.1 (origin link checker)",
			RespectRobots: false,
			CaptureTitle:  true,
		},
		Validation: ValidationConfig{
			BaseURL:     "https://api.perplexity.ai",
			Model:       "sonar",
			BatchSize:   5,
			Timeout:     60 * time.Second,
			Temperature: 0.1,
		},
		Stage: StageConfig{
			ProbeDelay:       500 * time.Millisecond,
			BatchDelay:       time.Second,
			CheckOriginLinks: true,
			DropInaccessible: true,
			KeepStatuses:     []string{string(StatusVerified)},
		},
		Origin: OriginConfig{
			Domains: []string{"reddit.com", "redd.it"},
		},
		Policy: PolicyConfig{
			StrictVerification: true,
			VagueMarkers: []string{
				"trending on reddit",
				"discussion on reddit",
				"unable to verify",
				"cannot confirm",
				"no sources found",
			},
		},
	}
}
