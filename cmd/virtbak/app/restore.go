package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/unix"
)

// Restore drives the full restore sequence: locate and load the backup's
// descriptor, validate the new name, prepare storage, rewrite identity on a
// copy, copy and remap disks, register, and optionally start.
//
// The backup directory is treated as read-only. Registration is atomic: on
// a define failure no machine is left behind and the temporary descriptor
// file is removed. Disks already copied before a hard failure are left in
// place for manual inspection.
func Restore(hv Hypervisor, conf *AppConfig, log *Log, backupDir string, newName string, start bool) error {
	configPath, err := findConfigDocument(backupDir, log)
	if err != nil {
		return err
	}

	desc, err := LoadDescriptor(configPath)
	if err != nil {
		return err
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("new machine name is empty: %w", ErrInvalidInput)
	}
	names, err := hv.ListNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == newName {
			return fmt.Errorf("machine '%s': %w", newName, ErrNameConflict)
		}
	}

	if err := os.MkdirAll(conf.StoragePath, 0755); err != nil {
		return fmt.Errorf("creating '%s': %s: %w", conf.StoragePath, err, ErrIO)
	}
	if err := unix.Access(conf.StoragePath, unix.W_OK); err != nil {
		log.Warningf("storage directory '%s' is not writable by the current user", conf.StoragePath)
	}

	fresh, err := RewriteIdentity(desc, newName)
	if err != nil {
		return err
	}

	log.Infof("restoring '%s' as '%s' into %s", desc.Name(), newName, conf.StoragePath)

	mapping, err := CopyForRestore(desc.DiskPaths(), backupDir, conf.StoragePath, newName, log)
	if err != nil {
		return err
	}
	for _, oldPath := range desc.DiskPaths() {
		newPath, ok := mapping[oldPath]
		if !ok {
			continue
		}
		if !fresh.SetDiskPath(oldPath, newPath) {
			log.Warningf("disk '%s' not present in rewritten descriptor", oldPath)
		}
	}

	if err := register(hv, conf, fresh); err != nil {
		return err
	}

	log.Successf("machine '%s' restored (uuid %s)", newName, fresh.UUID())

	if start {
		if err := hv.Start(newName); err != nil {
			return fmt.Errorf("machine '%s' is registered but could not be started: %s", newName, err)
		}
		log.Infof("machine '%s' started", newName)
	}

	return nil
}

// register persists the descriptor to a temporary file and hands its
// content to the hypervisor's define operation. The temporary file is
// removed on every exit path, so a failed define leaves nothing behind.
func register(hv Hypervisor, conf *AppConfig, desc *Descriptor) error {
	tmpFile, err := os.CreateTemp(conf.TempPath, "virtbak-*.xml")
	if err != nil {
		return fmt.Errorf("creating temporary descriptor: %s: %w", err, ErrIO)
	}
	defer os.Remove(tmpFile.Name())

	if err := desc.Save(tmpFile.Name()); err != nil {
		tmpFile.Close()
		return err
	}
	tmpFile.Close()

	xml, err := desc.XML()
	if err != nil {
		return fmt.Errorf("%s: %w", err, ErrRegistrationFailed)
	}
	if err := hv.Define(xml); err != nil {
		return fmt.Errorf("defining machine '%s': %s: %w", desc.Name(), err, ErrRegistrationFailed)
	}
	return nil
}

// findConfigDocument locates the descriptor document inside a backup
// directory. With several .xml files present, the first in sorted order is
// used and a warning is logged.
func findConfigDocument(backupDir string, log *Log) (string, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("backup directory '%s': %w", backupDir, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %s: %w", backupDir, err, ErrIO)
	}

	var candidates []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".xml") {
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no .xml document in '%s': %w", backupDir, ErrNoConfigFound)
	}

	sort.Strings(candidates)
	if len(candidates) > 1 {
		log.Warningf("%d configuration documents in '%s', using '%s'", len(candidates), backupDir, candidates[0])
	}
	return filepath.Join(backupDir, candidates[0]), nil
}
