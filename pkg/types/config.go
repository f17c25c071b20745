package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds the retries on transport errors, 429 and 5xx
	// (default 3). A negative value disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RetryWait is the initial backoff between retries (default 2s).
	RetryWait time.Duration `json:"retry_wait" yaml:"retry_wait" mapstructure:"retry_wait"`
}

// SourceKind selects how a source is read.
type SourceKind string

const (
	// SourceHTML scrapes a web page with CSS selectors.
	SourceHTML SourceKind = "html"

	// SourceFile reads snippets from a local YAML or JSON file.
	SourceFile SourceKind = "file"
)

// SourceConfig declares one input source. Sources are processed and merged in
// the order they are declared.
type SourceConfig struct {
	// Name is reported as Transfer.SourceName.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	Kind SourceKind `json:"kind" yaml:"kind" mapstructure:"kind"`

	// URL is the listing page for html sources.
	URL string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`

	// Path is the snippet file for file sources.
	Path string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`

	// ItemSelector selects one element per news item (default "article").
	ItemSelector string `json:"item_selector,omitempty" yaml:"item_selector,omitempty" mapstructure:"item_selector"`

	// TitleSelector selects the headline inside an item (default "h2, h3, a").
	TitleSelector string `json:"title_selector,omitempty" yaml:"title_selector,omitempty" mapstructure:"title_selector"`

	// LinkSelector selects the article link inside an item (default "a[href]").
	LinkSelector string `json:"link_selector,omitempty" yaml:"link_selector,omitempty" mapstructure:"link_selector"`

	// DateSelector selects the date text, inside an item or an article page
	// (default "time, span.date").
	DateSelector string `json:"date_selector,omitempty" yaml:"date_selector,omitempty" mapstructure:"date_selector"`

	// ExcerptSelector selects a lead paragraph inside an item, used as the
	// body when links are not followed.
	ExcerptSelector string `json:"excerpt_selector,omitempty" yaml:"excerpt_selector,omitempty" mapstructure:"excerpt_selector"`

	// FeeSelector selects a fee cell inside an item, for table-shaped listings.
	FeeSelector string `json:"fee_selector,omitempty" yaml:"fee_selector,omitempty" mapstructure:"fee_selector"`

	// BodySelector selects the article body on followed pages (default "body").
	BodySelector string `json:"body_selector,omitempty" yaml:"body_selector,omitempty" mapstructure:"body_selector"`

	// Keywords gate items: a headline must contain one of them (case-insensitive).
	// Empty disables the gate.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty" mapstructure:"keywords"`

	// FollowLinks fetches each item's article page for body text and date.
	FollowLinks bool `json:"follow_links" yaml:"follow_links" mapstructure:"follow_links"`

	// HomeTeam marks an official club site; see RawText.HomeTeam.
	HomeTeam string `json:"home_team,omitempty" yaml:"home_team,omitempty" mapstructure:"home_team"`
}

// FetchConfig holds settings for the fetch collaborators.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// RequestDelay is the minimum delay between requests to one source (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay"`

	// Concurrency bounds how many sources are fetched at once (default 2).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	Sources []SourceConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
}

// RankConfig holds the ranking policy.
type RankConfig struct {
	// Window drops records dated before now-Window. Zero disables the cutoff.
	Window time.Duration `json:"window" yaml:"window" mapstructure:"window"`

	// Limit caps the number of records kept. Zero disables the cap.
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// RegistryConfig lists the canonical team names. Empty uses the built-in list.
type RegistryConfig struct {
	Teams []string `json:"teams" yaml:"teams" mapstructure:"teams"`
}

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// OutputPath is the JSON file written by collect (default transfers.json).
	OutputPath string `json:"output_path" yaml:"output_path" mapstructure:"output_path"`

	// ArchivePath is the SQLite history database. Empty disables archiving.
	ArchivePath string `json:"archive_path" yaml:"archive_path" mapstructure:"archive_path"`
}

// ServerConfig holds settings for the HTTP query surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// DataPath is the JSON dataset served; defaults to StoreConfig.OutputPath.
	DataPath string `json:"data_path" yaml:"data_path" mapstructure:"data_path"`
}

// Trace exporters accepted by TelemetryConfig.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// TelemetryConfig selects where fetch spans are exported.
type TelemetryConfig struct {
	// Exporter is none (default), stdout or otlp.
	Exporter string `json:"exporter" yaml:"exporter" mapstructure:"exporter"`

	// Endpoint is the OTLP/HTTP endpoint URL. Empty uses the
	// OTEL_EXPORTER_OTLP_* environment variables.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Rank      RankConfig      `json:"rank" yaml:"rank" mapstructure:"rank"`
	Registry  RegistryConfig  `json:"registry" yaml:"registry" mapstructure:"registry"`
	Store     StoreConfig     `json:"store" yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry" mapstructure:"telemetry"`
}

// Defaults used by ApplyDefaults.
const (
	DefaultTimeout      = 10 * time.Second
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultMaxRetries   = 3
	DefaultRetryWait    = 2 * time.Second
	DefaultRequestDelay = time.Second
	DefaultConcurrency  = 2
	DefaultWindow       = 90 * 24 * time.Hour
	DefaultLimit        = 50
	DefaultOutputPath   = "transfers.json"
	DefaultAddr         = ":8080"
)

// ApplyDefaults fills zero-valued HTTP settings.
func (c *HTTPConfig) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryWait <= 0 {
		c.RetryWait = DefaultRetryWait
	}
}

// ApplyDefaults fills zero-valued settings in every stage except Rank, where
// zero disables the cutoff or the cap.
func (c *PipelineConfig) ApplyDefaults() {
	c.Fetch.HTTPConfig.ApplyDefaults()
	if c.Fetch.RequestDelay <= 0 {
		c.Fetch.RequestDelay = DefaultRequestDelay
	}
	if c.Fetch.Concurrency <= 0 {
		c.Fetch.Concurrency = DefaultConcurrency
	}
	for i := range c.Fetch.Sources {
		s := &c.Fetch.Sources[i]
		if s.Kind == "" {
			if s.Path != "" {
				s.Kind = SourceFile
			} else {
				s.Kind = SourceHTML
			}
		}
		if s.Name == "" {
			s.Name = s.URL + s.Path
		}
	}
	if c.Store.OutputPath == "" {
		c.Store.OutputPath = DefaultOutputPath
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.DataPath == "" {
		c.Server.DataPath = c.Store.OutputPath
	}
	if c.Telemetry.Exporter == "" {
		c.Telemetry.Exporter = ExporterNone
	}
}

// NewPipelineConfig returns a configuration with every default applied,
// including the 90-day window and the 50-record cap.
func NewPipelineConfig() PipelineConfig {
	c := PipelineConfig{
		Rank: RankConfig{Window: DefaultWindow, Limit: DefaultLimit},
	}
	c.ApplyDefaults()
	return c
}
