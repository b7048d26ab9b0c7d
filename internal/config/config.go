// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Environment variable keys recognized by the environment tier.
const (
	EnvUsername = "TESTRAIL_USERNAME"
	EnvAPIKey   = "TESTRAIL_USER_API_KEY"
	EnvPassword = "TESTRAIL_PASSWORD"
	EnvURL      = "TESTRAIL_URL"
)

// Logical field names accepted by EnvVar. These double as the key names of
// the config-file tier.
const (
	FieldUsername = "username"
	FieldAPIKey   = "user_api_key"
	FieldPassword = "password"
	FieldURL      = "url"
)

// EnvVar maps a logical credential field name to its environment variable
// key. Unrecognized names fail with ErrUnknownField; the enumeration is
// fixed, this is not a config system.
func EnvVar(name string) (string, error) {
	switch name {
	case FieldUsername:
		return EnvUsername, nil
	case FieldAPIKey:
		return EnvAPIKey, nil
	case FieldPassword:
		return EnvPassword, nil
	case FieldURL:
		return EnvURL, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
}

// Credentials is the resolved credential set. Computed once at client
// construction, immutable afterwards.
type Credentials struct {
	Username string `validate:"required"`
	// Secret is the basic-auth secret: the tier's API key when present,
	// otherwise its password.
	Secret string `validate:"required"`
	URL    string `validate:"required"`
}

// candidate is one tier's raw view of the four recognized fields, before the
// secret preference is applied.
type candidate struct {
	Username string `env:"TESTRAIL_USERNAME"`
	APIKey   string `env:"TESTRAIL_USER_API_KEY"`
	Password string `env:"TESTRAIL_PASSWORD"`
	URL      string `env:"TESTRAIL_URL"`
}

// complete reports whether the tier supplies a usable triple on its own.
// Tiers are never merged: a partial tier is skipped wholesale.
func (c candidate) complete() bool {
	return c.Username != "" && c.URL != "" && (c.APIKey != "" || c.Password != "")
}

// credentials applies the secret preference: API key over password.
func (c candidate) credentials() *Credentials {
	secret := c.Password
	if c.APIKey != "" {
		secret = c.APIKey
	}
	return &Credentials{Username: c.Username, Secret: secret, URL: c.URL}
}

// FileCredentials is the raw key set a config file may provide.
type FileCredentials struct {
	Username string `mapstructure:"username"`
	APIKey   string `mapstructure:"user_api_key"`
	Password string `mapstructure:"password"`
	URL      string `mapstructure:"url"`
}

// FileLoader reads the config-file tier. A (nil, nil) return means no config
// file exists, which is not an error.
type FileLoader func() (*FileCredentials, error)

type options struct {
	explicit candidate
	environ  map[string]string
	loadFile FileLoader
}

// Option customizes credential resolution.
type Option func(*options)

// WithUsername supplies the username explicitly (tier 1).
func WithUsername(username string) Option {
	return func(o *options) { o.explicit.Username = username }
}

// WithAPIKey supplies the user API key explicitly (tier 1).
func WithAPIKey(key string) Option {
	return func(o *options) { o.explicit.APIKey = key }
}

// WithPassword supplies the password explicitly (tier 1).
func WithPassword(password string) Option {
	return func(o *options) { o.explicit.Password = password }
}

// WithURL supplies the server base URL explicitly (tier 1).
func WithURL(url string) Option {
	return func(o *options) { o.explicit.URL = url }
}

// WithEnvironment replaces the process environment for the environment tier.
// Tests use this to resolve against a fixed map instead of global state.
func WithEnvironment(environ map[string]string) Option {
	return func(o *options) { o.environ = environ }
}

// WithConfigLoader replaces the config-file tier's loader.
func WithConfigLoader(load FileLoader) Option {
	return func(o *options) { o.loadFile = load }
}

// ConfigPath returns the conventional config file location,
// ~/.testrail-go/config.yaml.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	return filepath.Join(home, ".testrail-go", "config.yaml"), nil
}

func defaultFileLoader() (*FileCredentials, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	fc := &FileCredentials{}
	if err := v.Unmarshal(fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

// Resolve assembles credentials by consulting three tiers top to bottom:
// explicit options, environment variables, then the config file. The first
// tier that supplies a complete (username, secret, url) triple wins
// wholesale; fields are never mixed across tiers. If no tier is complete,
// Resolve fails with *LoginError.
func Resolve(opts ...Option) (*Credentials, error) {
	o := options{loadFile: defaultFileLoader}
	for _, opt := range opts {
		opt(&o)
	}
	if o.environ == nil {
		o.environ = env.ToMap(os.Environ())
	}

	tiers := []func() (candidate, error){
		func() (candidate, error) { return o.explicit, nil },
		o.envTier,
		o.fileTier,
	}

	for _, tier := range tiers {
		c, err := tier()
		if err != nil {
			return nil, err
		}
		if !c.complete() {
			continue
		}
		creds := c.credentials()
		if err := validator.New().Struct(creds); err != nil {
			return nil, fmt.Errorf("validate credentials: %w", err)
		}
		return creds, nil
	}

	return nil, &LoginError{}
}

func (o *options) envTier() (candidate, error) {
	var c candidate
	if err := env.ParseWithOptions(&c, env.Options{Environment: o.environ}); err != nil {
		return candidate{}, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}

func (o *options) fileTier() (candidate, error) {
	fc, err := o.loadFile()
	if err != nil {
		return candidate{}, err
	}
	if fc == nil {
		return candidate{}, nil
	}
	return candidate{
		Username: fc.Username,
		APIKey:   fc.APIKey,
		Password: fc.Password,
		URL:      fc.URL,
	}, nil
}
