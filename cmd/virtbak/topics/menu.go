package topics

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"virtbak/cmd/virtbak/app"
)

// runMenu is the interactive surface: backup, restore, exit. A failed
// operation prints its reason and returns to the menu, it never kills the
// process.
func runMenu() error {
	hv, err := newHypervisor()
	if err != nil {
		return err
	}
	defer hv.Close()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println()
		color.New(color.Bold).Println("virtbak")
		fmt.Println("  1) backup a machine")
		fmt.Println("  2) restore a backup")
		fmt.Println("  3) exit")

		choice, err := promptLine(reader, "choice")
		if err != nil {
			return nil // EOF
		}

		switch choice {
		case "1":
			if err := menuBackup(hv, reader); err != nil {
				globalLog.Error(err.Error())
			}
		case "2":
			if err := menuRestore(hv, reader); err != nil {
				globalLog.Error(err.Error())
			}
		case "3", "q", "exit":
			return nil
		default:
			globalLog.Warningf("unknown choice '%s'", choice)
		}
	}
}

func menuBackup(hv app.Hypervisor, reader *bufio.Reader) error {
	if err := listMachines(hv, ""); err != nil {
		return err
	}

	name, err := promptNonEmpty(reader, "machine to backup")
	if err != nil {
		return err
	}

	_, err = app.Backup(hv, globalConfig, globalLog, name)
	return err
}

func menuRestore(hv app.Hypervisor, reader *bufio.Reader) error {
	backups, err := app.ListBackups(globalConfig.BackupPath)
	if err != nil {
		return err
	}

	for i, backup := range backups {
		fmt.Printf("  %d) %s (%s, %s)\n", i+1, backup.Path, backup.MachineName, backup.Size.HR())
	}
	if len(backups) == 0 {
		fmt.Printf("  (no backup under %s, a path can still be entered)\n", globalConfig.BackupPath)
	}

	answer, err := promptNonEmpty(reader, "backup (number or path)")
	if err != nil {
		return err
	}

	backupDir := answer
	if index, errA := strconv.Atoi(answer); errA == nil && index >= 1 && index <= len(backups) {
		backupDir = backups[index-1].Path
	}

	newName, err := promptNonEmpty(reader, "new machine name")
	if err != nil {
		return err
	}

	answer, err = promptLine(reader, "start it once restored? [y/N]")
	if err != nil {
		return err
	}
	return app.Restore(hv, globalConfig, globalLog, backupDir, newName, isYes(answer))
}

func isYes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	color.New(color.FgCyan).Printf("%s> ", label)
	line, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptNonEmpty re-prompts until the answer is non-empty (EOF still exits)
func promptNonEmpty(reader *bufio.Reader, label string) (string, error) {
	for {
		answer, err := promptLine(reader, label)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}
