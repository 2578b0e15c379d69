package app

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
)

// AppConfig describes the general configuration of the tool
type AppConfig struct {
	// URI to libvirtd (qemu only, currently)
	LibVirtURI string

	// where backup directories are created
	BackupPath string

	// where restored disk images are written
	StoragePath string

	// temporary files path (empty = system default)
	TempPath string

	// graceful shutdown poll bound
	ShutdownPollAttempts int
	ShutdownPollInterval time.Duration

	// user owning backup directories after a run (defaults to the
	// invoking non-elevated user)
	ActingUser string

	Trace bool

	configFile string
}

type tomlAppConfig struct {
	LibVirtURI           string `toml:"libvirt_uri"`
	BackupPath           string `toml:"backup_path"`
	StoragePath          string `toml:"storage_path"`
	TempPath             string `toml:"temp_path"`
	ShutdownPollAttempts int    `toml:"shutdown_poll_attempts"`
	ShutdownPollInterval int    `toml:"shutdown_poll_interval"`
	ActingUser           string `toml:"acting_user"`
	Trace                bool
}

// NewAppConfig returns an AppConfig from the given TOML file (a missing
// file is not an error, defaults are used). A .env file next to the config
// and VIRTBAK_* environment variables override file settings.
func NewAppConfig(configFile string) (*AppConfig, error) {
	home, err := actingHome()
	if err != nil {
		return nil, err
	}

	if configFile == "" {
		configFile = path.Clean(home + "/.virtbak.toml")
	}

	// defaults (if not in the file)
	tConfig := &tomlAppConfig{
		LibVirtURI:           "qemu:///system",
		BackupPath:           path.Clean(home + "/virtbak-backups"),
		StoragePath:          path.Clean(home + "/virtbak-storage"),
		TempPath:             "",
		ShutdownPollAttempts: 30,
		ShutdownPollInterval: 2,
	}

	if _, err := os.Stat(configFile); err == nil {
		meta, err := toml.DecodeFile(configFile, tConfig)
		if err != nil {
			return nil, err
		}
		for _, param := range meta.Undecoded() {
			return nil, fmt.Errorf("%s: unknown setting '%s'", configFile, param)
		}
	}

	// optional .env next to the config file, then the environment itself
	godotenv.Load(path.Clean(path.Dir(configFile) + "/.virtbak.env"))
	applyEnv(tConfig)

	if tConfig.ShutdownPollAttempts < 1 {
		return nil, fmt.Errorf("shutdown_poll_attempts: must be at least 1")
	}
	if tConfig.ShutdownPollInterval < 1 {
		return nil, fmt.Errorf("shutdown_poll_interval: must be at least 1 (seconds)")
	}

	appConfig := &AppConfig{
		LibVirtURI:           tConfig.LibVirtURI,
		BackupPath:           tConfig.BackupPath,
		StoragePath:          tConfig.StoragePath,
		TempPath:             tConfig.TempPath,
		ShutdownPollAttempts: tConfig.ShutdownPollAttempts,
		ShutdownPollInterval: time.Duration(tConfig.ShutdownPollInterval) * time.Second,
		ActingUser:           tConfig.ActingUser,
		Trace:                tConfig.Trace,
		configFile:           configFile,
	}

	if appConfig.ActingUser == "" {
		u, err := ActingUser()
		if err == nil {
			appConfig.ActingUser = u.Username
		}
	}

	return appConfig, nil
}

// ConfigFile returns the path this config was loaded from (or would have
// been loaded from, if absent)
func (conf *AppConfig) ConfigFile() string {
	return conf.configFile
}

func applyEnv(tConfig *tomlAppConfig) {
	if v := os.Getenv("VIRTBAK_URI"); v != "" {
		tConfig.LibVirtURI = v
	}
	if v := os.Getenv("VIRTBAK_BACKUP_PATH"); v != "" {
		tConfig.BackupPath = v
	}
	if v := os.Getenv("VIRTBAK_STORAGE_PATH"); v != "" {
		tConfig.StoragePath = v
	}
	if v := os.Getenv("VIRTBAK_TEMP_PATH"); v != "" {
		tConfig.TempPath = v
	}
	if v := os.Getenv("VIRTBAK_TRACE"); v != "" {
		tConfig.Trace = v == "1" || v == "true"
	}
	if v := os.Getenv("VIRTBAK_SHUTDOWN_POLL_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			tConfig.ShutdownPollAttempts = n
		}
	}
	if v := os.Getenv("VIRTBAK_SHUTDOWN_POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			tConfig.ShutdownPollInterval = n
		}
	}
}

// actingHome resolves the home directory of the acting user, so that
// sudo-run invocations still default below the real user's home.
func actingHome() (string, error) {
	if u, err := ActingUser(); err == nil && u.HomeDir != "" {
		return u.HomeDir, nil
	}
	return homedir.Dir()
}
