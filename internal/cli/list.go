package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/engram-export/internal/builder"
	"github.com/rcliao/engram-export/internal/identity"
	"github.com/rcliao/engram-export/internal/model"
	"github.com/rcliao/engram-export/internal/pipeline"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Preview the mod's engrams as a table",
		Long:  "Run the export pipeline without writing files and print the parsed engram records.",
		Run:   runList,
	}

	cmd.Flags().String("mod-root-folder", "", "Root asset folder of the mod")
	cmd.Flags().String("mda", pipeline.DefaultDataAssetName, "Mod data asset base name")
	cmd.MarkFlagRequired("mod-root-folder")

	RootCmd.AddCommand(cmd)
}

// tableBuilder accumulates records and renders them to stdout instead of
// writing output files.
type tableBuilder struct {
	records []model.EngramRecord
}

func (b *tableBuilder) Add(ctx context.Context, rec model.EngramRecord) error {
	b.records = append(b.records, rec)
	return nil
}

func (b *tableBuilder) Finalize(ctx context.Context) ([]string, error) {
	headers := []string{"Name", "Path", "Class", "Stack", "Level", "Points", "Ingredients"}
	rows := make([][]string, 0, len(b.records))
	for _, rec := range b.records {
		rows = append(rows, []string{
			rec.DisplayName,
			rec.EngramPath,
			rec.ClassName,
			strconv.Itoa(rec.StackSize),
			strconv.Itoa(rec.RequiredLevel),
			strconv.Itoa(rec.RequiredPoints),
			strconv.Itoa(len(rec.Recipe)),
		})
	}
	fmt.Println(renderTable(headers, rows, 4, 5, 6, 7))
	return nil, nil
}

func runList(cmd *cobra.Command, args []string) {
	modRoot, _ := cmd.Flags().GetString("mod-root-folder")
	mda, _ := cmd.Flags().GetString("mda")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	cat, err := openCatalog()
	if err != nil {
		exitErr("open catalog", err)
	}
	defer cat.Close()

	deriver := identity.Deriver{Namespace: cfg.NamespaceUUID(), Owners: cfg.Owners()}
	p := &pipeline.Pipeline{
		Catalog: cat,
		Records: &builder.RecordBuilder{Catalog: cat, Deriver: deriver},
		Output:  &tableBuilder{},
	}
	if _, err := p.Run(cmd.Context(), pipeline.Job{ModRoot: modRoot, DataAssetName: mda}); err != nil {
		exitErr("list", err)
	}
}
