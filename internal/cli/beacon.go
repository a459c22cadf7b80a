package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/engram-export/internal/builder"
	"github.com/rcliao/engram-export/internal/config"
	"github.com/rcliao/engram-export/internal/identity"
	"github.com/rcliao/engram-export/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "beacon",
		Short: "Generate a .beacondata package",
		Long:  "Export the mod's engrams as a content pack importable into Beacon: a gzipped tar holding the content-pack JSON and its manifest.",
		Run:   runBeacon,
	}

	addJobFlags(cmd)
	cmd.Flags().String("mod-id", "", "Marketplace ID of the mod")
	cmd.Flags().String("content-pack-id", "", "Content pack ID the engrams belong to")
	cmd.MarkFlagRequired("mod-id")
	cmd.MarkFlagRequired("content-pack-id")

	RootCmd.AddCommand(cmd)
}

func runBeacon(cmd *cobra.Command, args []string) {
	flags := readJobFlags(cmd)
	modID, _ := cmd.Flags().GetString("mod-id")
	contentPackID, _ := cmd.Flags().GetString("content-pack-id")

	info, err := os.Stat(flags.outputDir)
	if err != nil || !info.IsDir() {
		exitErr("output folder", fmt.Errorf("%s is not a valid directory", flags.outputDir))
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	// The mod root joins the ownership table after the built-in entries, so
	// an overlapping built-in prefix still wins. Declaration order decides.
	cfg.Ownership = append(cfg.Ownership, config.Owner{Prefix: flags.modRoot, ContentPackID: contentPackID})

	cat, err := openCatalog()
	if err != nil {
		exitErr("open catalog", err)
	}
	defer cat.Close()

	out := builder.NewBeaconBuilder(builder.BeaconConfig{
		ModName:       flags.modName,
		ModID:         modID,
		ContentPackID: contentPackID,
		OutputDir:     flags.outputDir,
		Protocol:      cfg.Protocol,
		Deriver:       identity.Deriver{Namespace: cfg.NamespaceUUID(), Owners: cfg.Owners()},
	})
	runExport(cmd, cfg, cat, out, pipeline.Job{ModRoot: flags.modRoot, DataAssetName: flags.mda})
}
