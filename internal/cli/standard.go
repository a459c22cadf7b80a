package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/engram-export/internal/builder"
	"github.com/rcliao/engram-export/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "standard",
		Short: "Generate a generic JSON dump",
		Long:  "Export the mod's engrams as indented JSON for downstream tooling.",
		Run:   runStandard,
	}

	addJobFlags(cmd)
	RootCmd.AddCommand(cmd)
}

func runStandard(cmd *cobra.Command, args []string) {
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

	out := builder.NewStandardBuilder(flags.modName, flags.outputDir)
	runExport(cmd, cfg, cat, out, pipeline.Job{ModRoot: flags.modRoot, DataAssetName: flags.mda})
}
