package app

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewAppConfigDefaults(t *testing.T) {
	// point at a non-existent file: defaults only
	conf, err := NewAppConfig(filepath.Join(t.TempDir(), "virtbak.toml"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	if conf.LibVirtURI != "qemu:///system" {
		t.Errorf("uri: %q", conf.LibVirtURI)
	}
	if conf.ShutdownPollAttempts != 30 {
		t.Errorf("poll attempts: %d", conf.ShutdownPollAttempts)
	}
	if conf.ShutdownPollInterval != 2*time.Second {
		t.Errorf("poll interval: %s", conf.ShutdownPollInterval)
	}
	if conf.BackupPath == "" || conf.StoragePath == "" {
		t.Error("backup/storage defaults are empty")
	}
}

func TestNewAppConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "virtbak.toml")
	writeFile(t, path, `
libvirt_uri = "qemu:///session"
backup_path = "/srv/backups"
storage_path = "/srv/vms"
shutdown_poll_attempts = 10
shutdown_poll_interval = 1
`)

	conf, err := NewAppConfig(path)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if conf.LibVirtURI != "qemu:///session" {
		t.Errorf("uri: %q", conf.LibVirtURI)
	}
	if conf.BackupPath != "/srv/backups" || conf.StoragePath != "/srv/vms" {
		t.Errorf("paths: %q / %q", conf.BackupPath, conf.StoragePath)
	}
	if conf.ShutdownPollAttempts != 10 || conf.ShutdownPollInterval != time.Second {
		t.Errorf("poll: %d × %s", conf.ShutdownPollAttempts, conf.ShutdownPollInterval)
	}
}

func TestNewAppConfigUnknownSetting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "virtbak.toml")
	writeFile(t, path, `backup_pth = "/typo"`)

	if _, err := NewAppConfig(path); err == nil {
		t.Fatal("expected an error for an unknown setting")
	}
}

func TestNewAppConfigEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "virtbak.toml")
	writeFile(t, path, `backup_path = "/from-file"`)

	t.Setenv("VIRTBAK_BACKUP_PATH", "/from-env")
	t.Setenv("VIRTBAK_TRACE", "1")

	conf, err := NewAppConfig(path)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if conf.BackupPath != "/from-env" {
		t.Errorf("env override lost: %q", conf.BackupPath)
	}
	if !conf.Trace {
		t.Error("trace env override lost")
	}
}

func TestNewAppConfigBadPollBound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "virtbak.toml")
	writeFile(t, path, `shutdown_poll_attempts = 0`)

	if _, err := NewAppConfig(path); err == nil {
		t.Fatal("expected an error for a zero poll bound")
	}
}
