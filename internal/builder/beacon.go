package builder

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rcliao/engram-export/internal/config"
	"github.com/rcliao/engram-export/internal/identity"
	"github.com/rcliao/engram-export/internal/model"
)

const blueprintableTag = "blueprintable"

// BeaconConfig carries everything the marketplace package format needs.
type BeaconConfig struct {
	ModName       string
	ModID         string
	ContentPackID string
	OutputDir     string
	Protocol      config.Protocol
	Deriver       identity.Deriver

	// Now is the clock for lastUpdate stamps. Defaults to time.Now.
	Now func() time.Time

	// TempRoot overrides the parent of the scoped staging directory.
	// Empty means the system temp dir.
	TempRoot string
}

// BeaconBuilder assembles a .beacondata bundle: the content-pack JSON
// document plus a manifest, tarred and gzipped into a single file.
type BeaconBuilder struct {
	cfg     BeaconConfig
	engrams []beaconEngram
}

// NewBeaconBuilder returns a builder writing to cfg.OutputDir.
func NewBeaconBuilder(cfg BeaconConfig) *BeaconBuilder {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &BeaconBuilder{cfg: cfg}
}

type beaconEngram struct {
	Group           string              `json:"group"`
	EngramID        *string             `json:"engramId"`
	Label           string              `json:"label"`
	AlternateLabel  *string             `json:"alternateLabel"`
	Tags            []string            `json:"tags"`
	Availability    int                 `json:"availability"`
	Path            string              `json:"path"`
	MinVersion      int                 `json:"minVersion"`
	LastUpdate      int64               `json:"lastUpdate"`
	ContentPackID   string              `json:"contentPackId"`
	ContentPackName string              `json:"contentPackName"`
	EntryString     string              `json:"entryString"`
	RequiredLevel   int                 `json:"requiredLevel"`
	RequiredPoints  int                 `json:"requiredPoints"`
	StackSize       int                 `json:"stackSize"`
	Recipe          []beaconRequirement `json:"recipe"`
}

type beaconRequirement struct {
	EngramID *string `json:"engramId"`
	Quantity int     `json:"quantity"`
	Exact    bool    `json:"exact"`
}

type beaconContentPack struct {
	ContentPackID    string `json:"contentPackId"`
	GameID           string `json:"gameId"`
	Marketplace      string `json:"marketplace"`
	MarketplaceID    string `json:"marketplaceId"`
	Name             string `json:"name"`
	IsConsoleSafe    bool   `json:"isConsoleSafe"`
	IsDefaultEnabled bool   `json:"isDefaultEnabled"`
	MinVersion       int    `json:"minVersion"`
	LastUpdate       int64  `json:"lastUpdate"`
}

type beaconContentPackPayload struct {
	GameID       string              `json:"gameId"`
	ContentPacks []beaconContentPack `json:"contentPacks"`
}

type beaconEngramPayload struct {
	GameID  string         `json:"gameId"`
	Engrams []beaconEngram `json:"engrams"`
}

type beaconDocument struct {
	Payloads []interface{} `json:"payloads"`
}

type beaconManifest struct {
	Version       int      `json:"version"`
	MinVersion    int      `json:"minVersion"`
	GeneratedWith int      `json:"generatedWith"`
	IsFull        bool     `json:"isFull"`
	Files         []string `json:"files"`
	IsUserData    bool     `json:"isUserData"`
}

// Add projects one record into the package schema.
func (b *BeaconBuilder) Add(ctx context.Context, rec model.EngramRecord) error {
	tags := []string{}
	if rec.Blueprintable {
		tags = append(tags, blueprintableTag)
	}

	recipe := []beaconRequirement{}
	for _, req := range rec.Recipe {
		id, ok := b.cfg.Deriver.Derive(req.ResourcePath)
		recipe = append(recipe, beaconRequirement{
			EngramID: nullableID(id, ok),
			Quantity: req.Quantity,
			Exact:    req.ExactTypeRequired,
		})
	}

	b.engrams = append(b.engrams, beaconEngram{
		Group:           "engrams",
		EngramID:        nullableID(rec.ExternalID, rec.ExternalID != ""),
		Label:           rec.DisplayName,
		Tags:            tags,
		Availability:    b.cfg.Protocol.Availability,
		Path:            rec.EngramPath,
		MinVersion:      b.cfg.Protocol.MinVersion,
		LastUpdate:      b.cfg.Now().Unix(),
		ContentPackID:   b.cfg.ContentPackID,
		ContentPackName: b.cfg.ModName,
		EntryString:     rec.ClassName,
		RequiredLevel:   rec.RequiredLevel,
		RequiredPoints:  rec.RequiredPoints,
		StackSize:       rec.StackSize,
		Recipe:          recipe,
	})
	return nil
}

// Finalize stages the content-pack document and manifest in a scoped temp
// directory, archives them to {output_dir}/{mod_name}.beacondata, and
// removes the staging directory on every exit path.
func (b *BeaconBuilder) Finalize(ctx context.Context) ([]string, error) {
	tmpDir, err := os.MkdirTemp(b.cfg.TempRoot, "beacondata-")
	if err != nil {
		return nil, fmt.Errorf("%w: create staging directory: %w", ErrWriteFailure, err)
	}
	defer os.RemoveAll(tmpDir)

	packFile := b.cfg.ContentPackID + ".json"
	if err := b.writeContentPack(filepath.Join(tmpDir, packFile)); err != nil {
		return nil, err
	}
	if err := b.writeManifest(filepath.Join(tmpDir, "Manifest.json"), packFile); err != nil {
		return nil, err
	}

	if err := ensureOutputDir(b.cfg.OutputDir); err != nil {
		return nil, err
	}
	dest := filepath.Join(b.cfg.OutputDir, b.cfg.ModName+".beacondata")
	if err := archiveDir(tmpDir, b.cfg.OutputDir, dest); err != nil {
		return nil, err
	}
	return []string{dest}, nil
}

func (b *BeaconBuilder) writeContentPack(path string) error {
	engrams := b.engrams
	if engrams == nil {
		engrams = []beaconEngram{}
	}
	doc := beaconDocument{
		Payloads: []interface{}{
			beaconContentPackPayload{
				GameID: b.cfg.Protocol.GameID,
				ContentPacks: []beaconContentPack{{
					ContentPackID:    b.cfg.ContentPackID,
					GameID:           b.cfg.Protocol.GameID,
					Marketplace:      b.cfg.Protocol.Marketplace,
					MarketplaceID:    b.cfg.ModID,
					Name:             b.cfg.ModName,
					IsConsoleSafe:    false,
					IsDefaultEnabled: false,
					MinVersion:       b.cfg.Protocol.MinVersion,
					LastUpdate:       b.cfg.Now().Unix(),
				}},
			},
			beaconEngramPayload{GameID: b.cfg.Protocol.GameID, Engrams: engrams},
		},
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encode content pack: %w", err)
	}
	return writeFile(path, data)
}

func (b *BeaconBuilder) writeManifest(path, packFile string) error {
	m := beaconManifest{
		Version:       b.cfg.Protocol.ManifestVersion,
		MinVersion:    b.cfg.Protocol.ManifestMinVersion,
		GeneratedWith: b.cfg.Protocol.GeneratedWith,
		Files:         []string{packFile},
		IsUserData:    true,
	}
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return writeFile(path, data)
}

func nullableID(id string, ok bool) *string {
	if !ok {
		return nil
	}
	return &id
}

// archiveDir tars and gzips the contents of srcDir to dest, preserving
// relative paths in walk order. The archive is assembled under a temporary
// name in scratchDir and only renamed to dest after the stream has closed
// successfully, so a failed run never leaves a half-written bundle at the
// destination.
func archiveDir(srcDir, scratchDir, dest string) (err error) {
	tmp, err := os.CreateTemp(scratchDir, ".beacondata-*")
	if err != nil {
		return fmt.Errorf("%w: create archive: %w", ErrWriteFailure, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	gz := gzip.NewWriter(tmp)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		hdr, hdrErr := tar.FileInfoHeader(info, "")
		if hdrErr != nil {
			return hdrErr
		}
		hdr.Name = filepath.ToSlash(rel)
		if writeErr := tw.WriteHeader(hdr); writeErr != nil {
			return writeErr
		}
		f, openErr := os.Open(path)
		if openErr != nil {
			return openErr
		}
		defer f.Close()
		_, copyErr := io.Copy(tw, f)
		return copyErr
	})
	if walkErr != nil {
		return fmt.Errorf("%w: archive %s: %w", ErrWriteFailure, dest, walkErr)
	}

	if err = tw.Close(); err != nil {
		return fmt.Errorf("%w: close archive: %w", ErrWriteFailure, err)
	}
	if err = gz.Close(); err != nil {
		return fmt.Errorf("%w: close archive: %w", ErrWriteFailure, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close archive: %w", ErrWriteFailure, err)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("%w: move archive to %s: %w", ErrWriteFailure, dest, err)
	}
	return nil
}
