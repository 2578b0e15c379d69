package topics

import (
	"github.com/spf13/cobra"

	"virtbak/cmd/virtbak/app"
)

// vmRestoreCmd represents the "vm restore" command
var vmRestoreCmd = &cobra.Command{
	Use:   "restore <backup-dir> <new-name>",
	Short: "Restore a backup as a new machine",
	Long: `Restore a backup directory as a new, independent machine: the name and
UUID are replaced, MAC addresses are cleared, and disk images are copied
into the storage directory as <new-name>_<original-basename>.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, _ := cmd.Flags().GetBool("start")

		hv, err := newHypervisor()
		if err != nil {
			return err
		}
		defer hv.Close()

		return app.Restore(hv, globalConfig, globalLog, args[0], args[1], start)
	},
}

func init() {
	vmCmd.AddCommand(vmRestoreCmd)
	vmRestoreCmd.Flags().BoolP("start", "s", false, "start the machine once restored")
}
