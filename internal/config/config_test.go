package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional: these tests fail when they change.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Depth is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Depth != 1 {
			t.Errorf("expected Depth to be 1, got %d", cfg.Depth)
		}
	})

	t.Run("default budgets are 1", func(t *testing.T) {
		t.Parallel()
		if cfg.ConcurrentRequests != 1 || cfg.ConcurrentDownloads != 1 {
			t.Errorf("expected budgets of 1, got %d and %d", cfg.ConcurrentRequests, cfg.ConcurrentDownloads)
		}
	})

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default UserAgent identifies sponge", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent != DefaultUserAgent {
			t.Errorf("expected default user agent, got %q", cfg.UserAgent)
		}
	})

	t.Run("subdomains are excluded by default", func(t *testing.T) {
		t.Parallel()
		if cfg.IncludeSubdomains {
			t.Error("expected IncludeSubdomains to be false")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.URI = "https://example.com/"
		cfg.OutputDirectory = "out"
		cfg.FileExtensions = []string{"pdf"}
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config", modify: func(*Config) {}},
		{name: "mime types only", modify: func(c *Config) {
			c.FileExtensions = nil
			c.MimeTypes = []string{"application/pdf", "application/xhtml+xml", "text/x-c.src"}
		}},
		{name: "socks5 proxy", modify: func(c *Config) { c.Proxy = "socks5://127.0.0.1:9050" }},
		{name: "missing uri", modify: func(c *Config) { c.URI = "" }, wantErr: ErrNoURI},
		{name: "relative uri", modify: func(c *Config) { c.URI = "/index.html" }, wantErr: ErrInvalidURI},
		{name: "ftp uri", modify: func(c *Config) { c.URI = "ftp://example.com/" }, wantErr: ErrInvalidURI},
		{name: "missing output", modify: func(c *Config) { c.OutputDirectory = "" }, wantErr: ErrNoOutputDir},
		{name: "no criteria", modify: func(c *Config) { c.FileExtensions = nil }, wantErr: ErrNoCriteria},
		{name: "mime type without subtype", modify: func(c *Config) { c.MimeTypes = []string{"application"} }, wantErr: ErrInvalidMimeType},
		{name: "mime type with parameters", modify: func(c *Config) { c.MimeTypes = []string{"text/html; charset=utf-8"} }, wantErr: ErrInvalidMimeType},
		{name: "empty extension", modify: func(c *Config) { c.FileExtensions = []string{"."} }, wantErr: ErrInvalidFileExtension},
		{name: "extension with separator", modify: func(c *Config) { c.FileExtensions = []string{"tar/gz"} }, wantErr: ErrInvalidFileExtension},
		{name: "zero depth", modify: func(c *Config) { c.Depth = 0 }, wantErr: ErrInvalidDepth},
		{name: "zero requests", modify: func(c *Config) { c.ConcurrentRequests = 0 }, wantErr: ErrInvalidConcurrentRequests},
		{name: "zero downloads", modify: func(c *Config) { c.ConcurrentDownloads = 0 }, wantErr: ErrInvalidConcurrentDownloads},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "negative body size", modify: func(c *Config) { c.MaxBodySize = -1 }, wantErr: ErrInvalidMaxBodySize},
		{name: "unsupported proxy", modify: func(c *Config) { c.Proxy = "ftp://proxy:21" }, wantErr: ErrInvalidProxy},
		{name: "proxy without host", modify: func(c *Config) { c.Proxy = "127.0.0.1:9050" }, wantErr: ErrInvalidProxy},
		{name: "both report formats", modify: func(c *Config) {
			c.JSONReport = true
			c.MarkdownReport = true
		}, wantErr: ErrConflictingReportFormats},
		{name: "verbose and quiet", modify: func(c *Config) {
			c.Verbose = true
			c.Quiet = true
		}, wantErr: ErrConflictingVerbosity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNormalizedCriteria(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.FileExtensions = []string{".PDF", "csv", " Zip "}
	cfg.MimeTypes = []string{"Application/PDF"}

	if got, want := cfg.NormalizedExtensions(), []string{"pdf", "csv", "zip"}; !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got, want := cfg.NormalizedMimeTypes(), []string{"application/pdf"}; !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestParseHeaders(t *testing.T) {
	t.Parallel()

	t.Run("parses name value pairs", func(t *testing.T) {
		t.Parallel()

		got, err := ParseHeaders([]string{"Authorization: Bearer abc", "X-Empty:", "Accept:text/html"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got["Authorization"] != "Bearer abc" || got["Accept"] != "text/html" {
			t.Errorf("unexpected headers: %v", got)
		}
		if v, ok := got["X-Empty"]; !ok || v != "" {
			t.Errorf("expected empty X-Empty header, got %q (present=%v)", v, ok)
		}
	})

	for _, raw := range []string{"no colon", ": value", "Bad Name: value"} {
		t.Run("rejects "+raw, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseHeaders([]string{raw}); !errors.Is(err, ErrInvalidHeader) {
				t.Errorf("expected ErrInvalidHeader, got %v", err)
			}
		})
	}
}

func TestGetSiteConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SiteConfig{
			UserAgent: "default-agent",
			Depth:     2,
			Headers:   map[string]string{"Accept": "text/html"},
		},
		Sites: map[string]SiteConfig{
			"example.com": {
				Cookie:         "session=abc",
				Depth:          3,
				Headers:        map[string]string{"Authorization": "Bearer token"},
				FileExtensions: []string{"pdf"},
			},
		},
	}

	t.Run("site overrides defaults", func(t *testing.T) {
		t.Parallel()

		got := cf.GetSiteConfig("example.com")
		if got.UserAgent != "default-agent" || got.Cookie != "session=abc" || got.Depth != 3 {
			t.Errorf("unexpected merge: %+v", got)
		}
		if got.Headers["Accept"] != "text/html" || got.Headers["Authorization"] != "Bearer token" {
			t.Errorf("expected merged headers, got %v", got.Headers)
		}
		if !slices.Equal(got.FileExtensions, []string{"pdf"}) {
			t.Errorf("expected site extensions, got %v", got.FileExtensions)
		}
	})

	t.Run("unknown site gets defaults", func(t *testing.T) {
		t.Parallel()

		got := cf.GetSiteConfig("other.com")
		if got.Depth != 2 || got.Cookie != "" {
			t.Errorf("expected defaults, got %+v", got)
		}
	})

	t.Run("merging does not mutate defaults", func(t *testing.T) {
		t.Parallel()

		_ = cf.GetSiteConfig("example.com")
		if _, ok := cf.Defaults.Headers["Authorization"]; ok {
			t.Error("expected defaults to stay untouched")
		}
	})
}

func TestApplySiteConfig(t *testing.T) {
	t.Parallel()

	site := SiteConfig{
		UserAgent:      "site-agent",
		Cookie:         "session=abc",
		Depth:          4,
		Headers:        map[string]string{"X-Site": "1", "X-Both": "site"},
		FileExtensions: []string{"zip"},
		MimeTypes:      []string{"application/zip"},
	}

	t.Run("fills unset values", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplySiteConfig(site, func(string) bool { return false })

		if cfg.UserAgent != "site-agent" || cfg.Cookie != "session=abc" || cfg.Depth != 4 {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if !slices.Equal(cfg.FileExtensions, []string{"zip"}) || !slices.Equal(cfg.MimeTypes, []string{"application/zip"}) {
			t.Errorf("expected site criteria, got %v %v", cfg.FileExtensions, cfg.MimeTypes)
		}
	})

	t.Run("explicit flags win", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Depth = 1
		cfg.FileExtensions = []string{"pdf"}
		cfg.Headers = map[string]string{"X-Both": "flag"}
		changed := func(name string) bool { return name == "depth" || name == "file-extension" }
		cfg.ApplySiteConfig(site, changed)

		if cfg.Depth != 1 {
			t.Errorf("expected flag depth, got %d", cfg.Depth)
		}
		if !slices.Equal(cfg.FileExtensions, []string{"pdf"}) {
			t.Errorf("expected flag extensions, got %v", cfg.FileExtensions)
		}
		if cfg.Headers["X-Both"] != "flag" || cfg.Headers["X-Site"] != "1" {
			t.Errorf("expected merged headers with flag precedence, got %v", cfg.Headers)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads defaults and sites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".sponge")
		content := `defaults:
  userAgent: "my-agent"
  mimeTypes:
    - application/pdf
sites:
  example.com:
    cookie: "session=abc"
    depth: 3
    headers:
      Authorization: "Bearer token"
    fileExtensions: [csv, zip]
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.Defaults.UserAgent != "my-agent" || !slices.Equal(cf.Defaults.MimeTypes, []string{"application/pdf"}) {
			t.Errorf("unexpected defaults: %+v", cf.Defaults)
		}
		site := cf.Sites["example.com"]
		if site.Cookie != "session=abc" || site.Depth != 3 || site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("unexpected site: %+v", site)
		}
		if !slices.Equal(site.FileExtensions, []string{"csv", "zip"}) {
			t.Errorf("unexpected extensions: %v", site.FileExtensions)
		}
	})

	t.Run("empty file has an empty sites map", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".sponge")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Sites == nil {
			t.Error("expected non-nil Sites map")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".sponge")
		if err := os.WriteFile(path, []byte("sites: [unclosed"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty result, got %s", got)
		}
	})
}

func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	if got := filepath.Base(XDGConfigDir()); got != AppName {
		t.Errorf("expected config dir to end in %s, got %s", AppName, XDGConfigDir())
	}
}
