package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type PollConfig struct {
	Interval time.Duration `yaml:"interval" validate:"required|min:1"`
}

// ProviderConfig holds the endpoints and constants of the external
// OAuth2/HRV provider. Defaults target the Fitbit Web API.
type ProviderConfig struct {
	AuthorizeURL  string        `yaml:"authorizeUrl" validate:"required|fullUrl"`
	TokenURL      string        `yaml:"tokenUrl" validate:"required|fullUrl"`
	APIBase       string        `yaml:"apiBase" validate:"required|fullUrl"`
	Scope         string        `yaml:"scope" validate:"required"`
	TokenLifetime int           `yaml:"tokenLifetime" validate:"required|uint"`
	Timeout       time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type Persistence struct {
	TokenFile      string        `yaml:"tokenFile" validate:"required|unixPath"`
	ColdDir        string        `yaml:"coldDir" validate:"required|unixPath"`
	SaveInterval   time.Duration `yaml:"saveInterval" validate:"required|min:1"`
	RestoreOnStart bool          `yaml:"restoreOnStart"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// UserConfig is the static OAuth identity of one configured user.
// Credentials are usually injected via environment variables, so only
// the identifier is validated here.
type UserConfig struct {
	ID           string `yaml:"id" validate:"required"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	RedirectURI  string `yaml:"redirectUri"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server         `yaml:"webServer"`
	Logger      LoggerConfig   `yaml:"logger"`
	Poll        PollConfig     `yaml:"poll"`
	Provider    ProviderConfig `yaml:"provider"`
	Persistence Persistence    `yaml:"persistence"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	Users       []UserConfig   `yaml:"users"`
}

// User looks up a configured user by identifier.
func (c *Config) User(id string) (UserConfig, bool) {
	for _, u := range c.Users {
		if u.ID == id {
			return u, true
		}
	}
	return UserConfig{}, false
}

// UserIDs returns the identifiers of all configured users in config order.
func (c *Config) UserIDs() []string {
	ids := make([]string, 0, len(c.Users))
	for _, u := range c.Users {
		ids = append(ids, u.ID)
	}
	return ids
}
