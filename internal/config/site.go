package config

import "maps"

// SiteConfig holds site-specific crawl settings for a single host.
// Zero values mean "not set" and leave the lower-priority setting in place.
type SiteConfig struct {
	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Cookie is an HTTP cookie to use when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Depth overrides the crawl depth for this site.
	Depth int `yaml:"depth,omitempty"`

	// FileExtensions replaces the extensions to download for this site.
	FileExtensions []string `yaml:"fileExtensions,omitempty"`

	// MimeTypes replaces the MIME types to download for this site.
	MimeTypes []string `yaml:"mimeTypes,omitempty"`
}

// File represents the structure of the .sponge configuration file.
type File struct {
	// Sites maps host names to their site-specific configurations.
	// Keys are host names without scheme or port (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if cf.Defaults.Headers != nil {
		result.Headers = maps.Clone(cf.Defaults.Headers)
	}

	siteConfig, ok := cf.Sites[host]
	if !ok {
		return result
	}

	if siteConfig.UserAgent != "" {
		result.UserAgent = siteConfig.UserAgent
	}
	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.Depth != 0 {
		result.Depth = siteConfig.Depth
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		maps.Copy(result.Headers, siteConfig.Headers)
	}
	if len(siteConfig.FileExtensions) > 0 {
		result.FileExtensions = siteConfig.FileExtensions
	}
	if len(siteConfig.MimeTypes) > 0 {
		result.MimeTypes = siteConfig.MimeTypes
	}
	return result
}

// FlagSet reports whether a command line flag was explicitly set.
// Explicit flags take precedence over the configuration file.
type FlagSet func(name string) bool

// ApplySiteConfig fills the settings of c that were not set on the command
// line from site. Headers are merged; command line headers win per name.
func (c *Config) ApplySiteConfig(site SiteConfig, changed FlagSet) {
	if site.UserAgent != "" && !changed("user-agent") {
		c.UserAgent = site.UserAgent
	}
	if site.Cookie != "" && !changed("cookie") {
		c.Cookie = site.Cookie
	}
	if site.Depth != 0 && !changed("depth") {
		c.Depth = site.Depth
	}
	if len(site.FileExtensions) > 0 && !changed("file-extension") {
		c.FileExtensions = site.FileExtensions
	}
	if len(site.MimeTypes) > 0 && !changed("mime-type") {
		c.MimeTypes = site.MimeTypes
	}
	if len(site.Headers) > 0 {
		merged := maps.Clone(site.Headers)
		maps.Copy(merged, c.Headers)
		c.Headers = merged
	}
}
