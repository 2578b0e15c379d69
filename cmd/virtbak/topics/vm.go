package topics

import (
	"github.com/spf13/cobra"
)

// vmCmd represents the "vm" parent command
var vmCmd = &cobra.Command{
	Use:   "vm",
	Short: "Machine operations",
}

func init() {
	rootCmd.AddCommand(vmCmd)
}
