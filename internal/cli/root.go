// Package cli implements the engram-export CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/engram-export/internal/assets"
	"github.com/rcliao/engram-export/internal/builder"
	"github.com/rcliao/engram-export/internal/config"
	"github.com/rcliao/engram-export/internal/identity"
	"github.com/rcliao/engram-export/internal/pipeline"
)

var (
	catalogPath string
	configPath  string
	verbose     bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "engram-export",
	Short: "Export engram data from a devkit asset dump",
	Long:  "Extracts craftable-item (engram) records from a mod's asset dump and writes them as a Beacon package, generic JSON, or CSV.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Asset dump database (default: $ENGRAM_EXPORT_CATALOG)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config overriding namespace, ownership, and protocol constants")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func getCatalogPath() string {
	if catalogPath != "" {
		return catalogPath
	}
	return os.Getenv("ENGRAM_EXPORT_CATALOG")
}

func openCatalog() (*assets.SQLiteCatalog, error) {
	path := getCatalogPath()
	if path == "" {
		return nil, fmt.Errorf("no asset catalog given (use --catalog or $ENGRAM_EXPORT_CATALOG)")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("asset catalog %s: %w", path, err)
	}
	return assets.OpenSQLiteCatalog(path)
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

// addJobFlags attaches the flags shared by every export subcommand.
func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().String("mod-root-folder", "", "Root asset folder of the mod")
	cmd.Flags().String("mod-name", "", "Name of the mod")
	cmd.Flags().String("output-folder", "", "Folder output files are written to")
	cmd.Flags().String("mda", pipeline.DefaultDataAssetName, "Mod data asset base name")
	cmd.MarkFlagRequired("mod-root-folder")
	cmd.MarkFlagRequired("mod-name")
	cmd.MarkFlagRequired("output-folder")
}

type jobFlags struct {
	modRoot   string
	modName   string
	outputDir string
	mda       string
}

func readJobFlags(cmd *cobra.Command) jobFlags {
	modRoot, _ := cmd.Flags().GetString("mod-root-folder")
	modName, _ := cmd.Flags().GetString("mod-name")
	outputDir, _ := cmd.Flags().GetString("output-folder")
	mda, _ := cmd.Flags().GetString("mda")
	return jobFlags{modRoot: modRoot, modName: modName, outputDir: outputDir, mda: mda}
}

// runExport wires the common pipeline pieces and executes the job.
func runExport(cmd *cobra.Command, cfg config.Config, cat assets.Catalog, out builder.Builder, job pipeline.Job) {
	deriver := identity.Deriver{Namespace: cfg.NamespaceUUID(), Owners: cfg.Owners()}
	p := &pipeline.Pipeline{
		Catalog: cat,
		Records: &builder.RecordBuilder{Catalog: cat, Deriver: deriver},
		Output:  out,
	}
	files, err := p.Run(cmd.Context(), job)
	if err != nil {
		exitErr("export", err)
	}
	for _, f := range files {
		fmt.Println(f)
	}
}
