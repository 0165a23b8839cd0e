package providers

import (
	"fmt"
	"hrvd/internal/structures"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "HRVD_LOG_LEVEL")
	viper.BindEnv("webServer.port", "HRVD_PORT")
	viper.BindEnv("poll.interval", "HRVD_POLL_INTERVAL")
	viper.BindEnv("persistence.tokenFile", "HRVD_TOKEN_FILE")
	viper.BindEnv("persistence.restoreOnStart", "HRVD_RESTORE_ON_START")
	viper.BindEnv("cache.enabled", "HRVD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "HRVD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	applyUserEnvOverrides(&conf)

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "HrvDashboardDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

// applyUserEnvOverrides fills per-user OAuth credentials from the
// environment (HRVD_<USER>_CLIENT_ID and friends). Viper cannot bind env
// variables into slice elements, so the lookup is done by hand after
// unmarshalling.
func applyUserEnvOverrides(conf *structures.Config) {
	for i, u := range conf.Users {
		prefix := "HRVD_" + strings.ToUpper(u.ID) + "_"
		if v := os.Getenv(prefix + "CLIENT_ID"); v != "" {
			conf.Users[i].ClientID = v
		}
		if v := os.Getenv(prefix + "CLIENT_SECRET"); v != "" {
			conf.Users[i].ClientSecret = v
		}
		if v := os.Getenv(prefix + "REDIRECT_URI"); v != "" {
			conf.Users[i].RedirectURI = v
		}
	}
}
