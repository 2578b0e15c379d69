package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/alessio/shellescape"
)

// CopyForBackup copies each disk image to destDir, preserving basenames.
// A missing or unreadable disk is skipped with a warning; only an elevated
// copy failing after a permission-denied failure is a hard error. Returns
// the number of disks actually copied.
func CopyForBackup(paths []string, destDir string, log *Log) (int, error) {
	copied := 0
	for _, path := range paths {
		dest := filepath.Join(destDir, filepath.Base(path))
		log.Tracef("copying disk '%s' to '%s'", path, dest)
		ok, err := copyDisk(path, dest, log)
		if err != nil {
			return copied, err
		}
		if ok {
			copied++
		}
	}
	return copied, nil
}

// CopyForRestore copies each disk image from somewhere under backupDir to
// destDir/<newName>_<basename>. Disks are located by basename; when the
// backup directory holds several same-named files, the first one in walk
// order is used (a warning is logged). A disk missing from the backup is
// skipped with a warning and does not appear in the returned mapping, so
// its descriptor reference stays unrewritten.
//
// Returns the old-path -> new-path mapping for every disk actually copied.
func CopyForRestore(paths []string, backupDir string, destDir string, newName string, log *Log) (map[string]string, error) {
	mapping := make(map[string]string)
	for _, path := range paths {
		base := filepath.Base(path)

		source := findByBasename(backupDir, base, log)
		if source == "" {
			log.Warningf("disk '%s' not found in backup '%s', reference left unchanged", base, backupDir)
			continue
		}

		dest := filepath.Join(destDir, newName+"_"+base)
		log.Tracef("copying disk '%s' to '%s'", source, dest)
		ok, err := copyDisk(source, dest, log)
		if err != nil {
			return mapping, err
		}
		if ok {
			mapping[path] = dest
		}
	}
	return mapping, nil
}

// findByBasename returns the first file named base under root (lexical walk
// order), or "" if none exists
func findByBasename(root string, base string, log *Log) string {
	found := ""
	matches := 0
	filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		if entry.Name() == base {
			matches++
			if found == "" {
				found = path
			}
		}
		return nil
	})
	if matches > 1 {
		log.Warningf("%d files named '%s' under '%s', using '%s'", matches, base, root, found)
	}
	return found
}

// copy primitives, replaceable in tests (fs.ErrPermission is hard to
// produce portably inside a test sandbox)
var copyFileFunc = copyFile
var copyElevatedFunc = copyFileElevated

// copyDisk copies one disk image, retrying once with elevated privileges on
// a permission-denied failure. Any other failure is a warning: the disk is
// skipped and (false, nil) is returned. The elevated retry failing is the
// only hard error.
func copyDisk(source string, dest string, log *Log) (bool, error) {
	err := copyFileFunc(source, dest)
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrPermission) {
		log.Warningf("permission denied on '%s', retrying with elevated privileges", source)
		if errE := copyElevatedFunc(source, dest, log); errE != nil {
			return false, fmt.Errorf("elevated copy of '%s': %s: %w", source, errE, ErrIO)
		}
		return true, nil
	}

	log.Warningf("skipping disk '%s': %s", source, err)
	return false, nil
}

func copyFile(source string, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

func copyFileElevated(source string, dest string, log *Log) error {
	args := []string{"sudo", "cp", source, dest}
	log.Tracef("running: %s", shellescape.QuoteCommand(args))

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin // sudo may prompt for a password
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
