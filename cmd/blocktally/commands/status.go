package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mosvani/blocktally/internal/bytesize"
	"github.com/mosvani/blocktally/internal/cli/output"
	"github.com/mosvani/blocktally/pkg/apiclient"
)

var (
	statusOutput  string
	statusAPIAddr string
	statusDataset string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the accounting state of a running node",
	Long: `Query a running blocktally node's status API and display its usage.

Examples:
  # Node-wide usage and per-dataset breakdown
  blocktally status

  # One dataset's blocks
  blocktally status --dataset events

  # Query a remote node
  blocktally status --addr http://10.0.0.7:8080

  # Output as JSON
  blocktally status --output json`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusAPIAddr, "addr", "http://localhost:8080", "status API base URL")
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "table", "output format (table|json|yaml)")
	statusCmd.Flags().StringVar(&statusDataset, "dataset", "", "show one dataset's blocks")
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(statusOutput)
	if err != nil {
		return err
	}

	client := apiclient.New(statusAPIAddr)

	if statusDataset != "" {
		return printDataset(client, format)
	}
	return printNodeStatus(client, format)
}

func printNodeStatus(client *apiclient.Client, format output.Format) error {
	node, err := client.Node()
	if err != nil {
		return fmt.Errorf("failed to reach node at %s: %w", statusAPIAddr, err)
	}
	usage, err := client.Usage()
	if err != nil {
		return err
	}
	datasets, err := client.Datasets()
	if err != nil {
		return err
	}

	if format != output.FormatTable {
		report := struct {
			Node     any `json:"node" yaml:"node"`
			Usage    any `json:"usage" yaml:"usage"`
			Datasets any `json:"datasets" yaml:"datasets"`
		}{node, usage, datasets}
		if format == output.FormatJSON {
			return output.PrintJSON(os.Stdout, report)
		}
		return output.PrintYAML(os.Stdout, report)
	}

	fmt.Printf("Node %s\n\n", node.Display)

	pairs := [][2]string{
		{"Blocks", strconv.Itoa(usage.BlockCount)},
		{"Datasets", strconv.Itoa(usage.DatasetCount)},
		{"On-heap memory", formatBytes(usage.OnHeapMemUsed)},
		{"Off-heap memory", formatBytes(usage.OffHeapMemUsed)},
		{"Disk", formatBytes(usage.DiskUsed)},
	}
	if usage.MaxMem != nil {
		pairs = append(pairs, [2]string{"Memory ceiling", formatBytes(*usage.MaxMem)})
	}
	if usage.MemRemaining != nil {
		pairs = append(pairs, [2]string{"Memory remaining", formatBytes(*usage.MemRemaining)})
	}
	output.SimpleTable(os.Stdout, pairs)

	if len(datasets) > 0 {
		fmt.Println()
		table := output.NewTableData("DATASET", "LEVEL", "BLOCKS", "MEMORY", "DISK")
		for _, d := range datasets {
			table.AddRow(d.ID, d.Level, strconv.Itoa(d.BlockCount),
				formatBytes(d.MemoryUsage), formatBytes(d.DiskUsage))
		}
		table.PrintTable(os.Stdout)
	}

	return nil
}

func printDataset(client *apiclient.Client, format output.Format) error {
	detail, err := client.Dataset(statusDataset)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return fmt.Errorf("dataset not found: %s", statusDataset)
		}
		return err
	}

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(os.Stdout, detail)
	case output.FormatYAML:
		return output.PrintYAML(os.Stdout, detail)
	}

	fmt.Printf("Dataset %s (%s)\n\n", detail.ID, detail.Level)

	table := output.NewTableData("BLOCK", "LEVEL", "MEMORY", "DISK")
	for _, b := range detail.Blocks {
		table.AddRow(b.ID, b.Level, formatBytes(b.MemSize), formatBytes(b.DiskSize))
	}
	table.PrintTable(os.Stdout)

	return nil
}

func formatBytes(v int64) string {
	if v < 0 {
		return strconv.FormatInt(v, 10)
	}
	return bytesize.ByteSize(v).String()
}
