package topics

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time (-ldflags "-X …")
var Version = "0.2.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display virtbak version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
