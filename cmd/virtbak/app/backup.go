package app

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/c2h5oh/datasize"
)

// timestamp suffix of backup directories (<name>_<YYYYMMDD_HHMMSS>)
const backupTimeLayout = "20060102_150405"

// Backup drives the full backup sequence for one machine: state capture,
// graceful shutdown (bounded poll), disk copy, descriptor export, ownership
// fix, and restart when the machine was initially running. Returns the
// backup directory path.
//
// Hard failures abort and leave completed steps in place for inspection;
// a disk that cannot be read and a failed restart are warnings only.
func Backup(hv Hypervisor, conf *AppConfig, log *Log, machineName string) (string, error) {
	// capture state (doubles as the existence check)
	state, err := hv.State(machineName)
	if err != nil {
		return "", err
	}
	wasRunning := state == StateRunning

	if wasRunning {
		shutdownAndWait(hv, conf, log, machineName)
	}

	dir := filepath.Join(conf.BackupPath, fmt.Sprintf("%s_%s", machineName, time.Now().Format(backupTimeLayout)))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating '%s': %s: %w", dir, err, ErrIO)
	}
	log.Infof("backing up '%s' to %s", machineName, dir)

	desc, err := DumpCurrent(hv, machineName)
	if err != nil {
		return "", err
	}

	paths := desc.DiskPaths()
	if len(paths) == 0 {
		log.Warningf("machine '%s' has no file-backed disk", machineName)
	}

	copied, err := CopyForBackup(paths, dir, log)
	if err != nil {
		return "", err
	}

	// a backup without its configuration document is useless, so this
	// one is a hard failure
	if err := desc.Save(filepath.Join(dir, machineName+".xml")); err != nil {
		return "", err
	}

	fixOwnership(dir, conf.ActingUser, log)

	if wasRunning {
		if err := hv.Start(machineName); err != nil {
			log.Warningf("machine '%s' could not be restarted: %s (backup is complete)", machineName, err)
		} else {
			log.Infof("machine '%s' restarted", machineName)
		}
	}

	log.Successf("backup completed: %s (%d disk(s))", dir, copied)
	reportContents(dir, log)
	return dir, nil
}

// shutdownAndWait requests a graceful shutdown and polls until the machine
// leaves the running state or the poll bound is reached. Past the bound the
// backup proceeds with the machine still running, loudly: a live-disk copy
// may be inconsistent, but a degraded backup beats none.
func shutdownAndWait(hv Hypervisor, conf *AppConfig, log *Log, machineName string) {
	log.Infof("shutting down '%s'", machineName)
	if err := hv.Shutdown(machineName); err != nil {
		log.Warningf("shutdown request failed: %s", err)
	}

	for attempt := 0; attempt < conf.ShutdownPollAttempts; attempt++ {
		time.Sleep(conf.ShutdownPollInterval)
		log.Trace("checking machine state")
		state, err := hv.State(machineName)
		if err != nil || state != StateRunning {
			return
		}
	}

	log.Warningf("machine '%s' is still running after %s, copying anyway (disk images may be inconsistent)",
		machineName, time.Duration(conf.ShutdownPollAttempts)*conf.ShutdownPollInterval)
}

// fixOwnership hands the backup directory back to the acting user. This is
// cosmetic (elevated runs otherwise leave root-owned backups), so every
// failure is swallowed into a warning.
func fixOwnership(dir string, username string, log *Log) {
	if username == "" {
		return
	}
	u, err := user.Lookup(username)
	if err != nil {
		log.Warningf("cannot resolve user '%s', backup ownership left as-is", username)
		return
	}
	if err := ChownTree(dir, u); err != nil {
		log.Warningf("cannot change ownership of '%s': %s", dir, err)
	}
}

func reportContents(dir string, log *Log) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		info, errI := entry.Info()
		if errI != nil {
			continue
		}
		log.Infof("  %s (%s)", entry.Name(), (datasize.ByteSize(info.Size()) * datasize.B).HR())
	}
}

// BackupInfo describes one backup directory under the backup root
type BackupInfo struct {
	Path        string
	MachineName string
	Created     time.Time
	Size        datasize.ByteSize
}

// ListBackups scans the backup root for <name>_<timestamp> directories.
// Directories not matching the naming convention are ignored.
func ListBackups(root string) ([]BackupInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name, created, ok := parseBackupDirName(entry.Name())
		if !ok {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:        filepath.Join(root, entry.Name()),
			MachineName: name,
			Created:     created,
			Size:        treeSize(filepath.Join(root, entry.Name())),
		})
	}
	return backups, nil
}

func parseBackupDirName(dirName string) (string, time.Time, bool) {
	// <machine-name>_<YYYYMMDD>_<HHMMSS>, machine names may contain '_'
	if len(dirName) < len(backupTimeLayout)+2 {
		return "", time.Time{}, false
	}
	cut := len(dirName) - len(backupTimeLayout) - 1
	if dirName[cut] != '_' {
		return "", time.Time{}, false
	}
	created, err := time.ParseInLocation(backupTimeLayout, dirName[cut+1:], time.Local)
	if err != nil {
		return "", time.Time{}, false
	}
	return dirName[:cut], created, true
}

func treeSize(dir string) datasize.ByteSize {
	var total int64
	filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		info, errI := entry.Info()
		if errI == nil {
			total += info.Size()
		}
		return nil
	})
	return datasize.ByteSize(total) * datasize.B
}
