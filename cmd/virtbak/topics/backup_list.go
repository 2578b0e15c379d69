package topics

import (
	"github.com/ryanuber/go-glob"
	"github.com/spf13/cobra"

	"virtbak/cmd/virtbak/app"
)

// backupListCmd represents the "backup list" command
var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups under the backup root",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		return listBackups(filter)
	},
}

func listBackups(filter string) error {
	backups, err := app.ListBackups(globalConfig.BackupPath)
	if err != nil {
		return err
	}

	data := [][]string{}
	for _, backup := range backups {
		if filter != "" && !glob.Glob(filter, backup.MachineName) {
			continue
		}
		data = append(data, []string{
			backup.MachineName,
			backup.Created.Format("2006-01-02 15:04:05"),
			backup.Size.HR(),
			backup.Path,
		})
	}

	RenderTable([]string{"Machine", "Created", "Size", "Path"}, data)
	return nil
}

func init() {
	backupCmd.AddCommand(backupListCmd)
	backupListCmd.Flags().StringP("filter", "f", "", "glob filter on machine name (ex: 'web*')")
}
