package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/engram-export/internal/builder"
	"github.com/rcliao/engram-export/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Generate a spreadsheet-friendly CSV",
		Long:  "Export the mod's engrams as a CSV importable into Excel or Sheets, with a human-readable crafting recipe column.",
		Run:   runCSV,
	}

	addJobFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func runCSV(cmd *cobra.Command, args []string) {
	flags := readJobFlags(cmd)

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	cat, err := openCatalog()
	if err != nil {
		exitErr("open catalog", err)
	}
	defer cat.Close()

	out := builder.NewCSVBuilder(flags.modName, flags.outputDir, cat)
	runExport(cmd, cfg, cat, out, pipeline.Job{ModRoot: flags.modRoot, DataAssetName: flags.mda})
}
