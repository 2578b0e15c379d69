package topics

import (
	"github.com/ryanuber/go-glob"
	"github.com/spf13/cobra"

	"virtbak/cmd/virtbak/app"
)

// vmListCmd represents the "vm list" command
var vmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered machines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")

		hv, err := newHypervisor()
		if err != nil {
			return err
		}
		defer hv.Close()

		return listMachines(hv, filter)
	},
}

func listMachines(hv app.Hypervisor, filter string) error {
	names, err := hv.ListNames()
	if err != nil {
		return err
	}

	data := [][]string{}
	for _, name := range names {
		if filter != "" && !glob.Glob(filter, name) {
			continue
		}
		state, errS := hv.State(name)
		if errS != nil {
			return errS
		}
		data = append(data, []string{name, state.String()})
	}

	RenderTable([]string{"Name", "State"}, data)
	return nil
}

func init() {
	vmCmd.AddCommand(vmListCmd)
	vmListCmd.Flags().StringP("filter", "f", "", "glob filter on machine name (ex: 'web*')")
}
