package topics

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"virtbak/cmd/virtbak/app"

	"github.com/spf13/cobra"
)

var globalCfgFile string
var globalTrace bool

var globalConfig *app.AppConfig
var globalLog *app.Log

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "virtbak",
	Short: "Backup and restore libvirt virtual machines",
	Long: `Virtbak backs up libvirt virtual machines (graceful shutdown, disk
image copy, configuration export) and restores them under a new identity:
new name, fresh UUID, MAC addresses cleared, disks relocated to the storage
directory.

Run without arguments for the interactive menu, or use the subcommands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return cmd.Help()
		}
		return runMenu()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if globalLog != nil {
			globalLog.Error(err.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&globalCfgFile, "config", "c", "", "config file (default is $HOME/.virtbak.toml)")
	rootCmd.PersistentFlags().BoolVarP(&globalTrace, "trace", "t", false, "show trace messages (debug)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	globalConfig, err = app.NewAppConfig(globalCfgFile)
	if err != nil {
		log.Fatalf("Error: %s", err)
	}

	globalLog = app.NewLog(globalTrace || globalConfig.Trace)
}

// newHypervisor connects to the hypervisor configured in the config file
func newHypervisor() (app.Hypervisor, error) {
	globalLog.Tracef("connecting to %s", globalConfig.LibVirtURI)
	return app.NewLibvirtHypervisor(globalConfig.LibVirtURI)
}
