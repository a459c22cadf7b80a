// Package pipeline drives one export run: locate the mod data asset,
// build a record per engram entry, and feed the chosen output builder.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/rcliao/engram-export/internal/assets"
	"github.com/rcliao/engram-export/internal/builder"
)

// ErrMissingAsset means the designated mod data asset could not be located
// under the mod root. Fatal; the run aborts before any output is produced.
var ErrMissingAsset = errors.New("missing asset")

// ErrMissingField means a required property is absent or empty on an
// otherwise-found asset. Fatal.
var ErrMissingField = errors.New("missing field")

// DefaultDataAssetName is the base-name fragment used to locate the mod
// data asset when the job does not override it.
const DefaultDataAssetName = "ModDataAsset"

// Job describes one export run.
type Job struct {
	// ModRoot is the asset folder the mod lives under.
	ModRoot string

	// DataAssetName is matched case-insensitively against asset base names
	// under ModRoot. Empty means DefaultDataAssetName.
	DataAssetName string
}

// Pipeline wires the asset catalog to an output builder. Records flow
// through in entry order; the run is strictly sequential.
type Pipeline struct {
	Catalog assets.Catalog
	Records *builder.RecordBuilder
	Output  builder.Builder
	Log     *slog.Logger
}

// Run executes the job and returns the written file paths. Any error is
// fatal to the run; there is no partial-success mode.
func (p *Pipeline) Run(ctx context.Context, job Job) ([]string, error) {
	log := p.logger().With("job", ulid.Make().String())
	log.Info("starting engram export", "mod_root", job.ModRoot)

	dataAsset, err := p.findDataAsset(ctx, job)
	if err != nil {
		return nil, err
	}
	log.Info("found mod data asset", "path", dataAsset)

	entries, err := p.Catalog.AdditionalEngramClasses(ctx, dataAsset)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s declares no engram entries", ErrMissingField, dataAsset)
	}
	log.Info("engram entries found", "count", len(entries))

	for _, path := range entries {
		rec, err := p.Records.Build(ctx, path)
		if err != nil {
			return nil, err
		}
		if err := p.Output.Add(ctx, rec); err != nil {
			return nil, err
		}
		log.Debug("engram accumulated", "path", rec.EngramPath, "name", rec.DisplayName)
	}

	files, err := p.Output.Finalize(ctx)
	if err != nil {
		return nil, err
	}
	log.Info("export complete", "files", files)
	return files, nil
}

// findDataAsset scans the mod root for the first asset whose base name
// contains the configured fragment, matching case-insensitively.
func (p *Pipeline) findDataAsset(ctx context.Context, job Job) (string, error) {
	fragment := job.DataAssetName
	if fragment == "" {
		fragment = DefaultDataAssetName
	}
	needle := strings.ToLower(fragment)

	paths, err := p.Catalog.ListAssetPaths(ctx, job.ModRoot)
	if err != nil {
		return "", err
	}
	for _, path := range paths {
		if strings.Contains(strings.ToLower(baseName(path)), needle) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no asset named like %q under %s", ErrMissingAsset, fragment, job.ModRoot)
}

// baseName returns the asset file name without folders or an object suffix.
func baseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.Index(path, "."); i >= 0 {
		path = path[:i]
	}
	return path
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}
