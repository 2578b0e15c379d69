package topics

import (
	"github.com/spf13/cobra"
)

// backupCmd represents the "backup" parent command
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Backup directory operations",
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
