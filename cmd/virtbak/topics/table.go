package topics

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// RenderStringTable renders a table as a string
func RenderStringTable(headers []string, data [][]string) string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.SetHeader(headers)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(data)
	table.Render()

	return tableString.String()
}

// RenderTable renders a table to stdout
func RenderTable(headers []string, data [][]string) {
	fmt.Print(RenderStringTable(headers, data))
}
