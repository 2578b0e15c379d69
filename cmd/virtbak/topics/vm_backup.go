package topics

import (
	"github.com/spf13/cobra"

	"virtbak/cmd/virtbak/app"
)

// vmBackupCmd represents the "vm backup" command
var vmBackupCmd = &cobra.Command{
	Use:   "backup <machine-name>",
	Short: "Backup a machine",
	Long: `Backup a machine: shut it down gracefully (it is restarted afterwards
if it was running), copy its disk images and configuration into a new
timestamped directory under the backup root.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hv, err := newHypervisor()
		if err != nil {
			return err
		}
		defer hv.Close()

		_, err = app.Backup(hv, globalConfig, globalLog, args[0])
		return err
	},
}

func init() {
	vmCmd.AddCommand(vmBackupCmd)
}
