package app

import (
	"os"
	"os/user"
	"path/filepath"
	"strconv"
)

// ActingUser returns the real (non-elevated) user behind this invocation:
// SUDO_USER when the tool runs under sudo, the current user otherwise.
func ActingUser() (*user.User, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err == nil {
			return u, nil
		}
		// stale SUDO_USER, fall through to the current user
	}
	return user.Current()
}

// ChownTree recursively changes ownership of root to the given user.
// Best effort: the first failure is returned but callers usually only warn.
func ChownTree(root string, u *user.User) error {
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return err
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, _ os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return os.Chown(path, uid, gid)
	})
}
