// Package identity derives stable external identifiers from asset paths.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// Owner maps one path prefix to the content pack that owns it.
type Owner struct {
	Prefix        string
	ContentPackID string
}

// Ownership is an ordered prefix table. Matching walks the table in
// declaration order and stops at the first prefix that matches, so an
// earlier broad prefix shadows a later narrower one. This mirrors how the
// marketplace tooling resolves overlapping prefixes; it is not
// longest-prefix matching.
type Ownership []Owner

// Deriver computes version-5 UUIDs for owned asset paths. Identical
// (path, ownership, namespace) inputs always yield identical identifiers;
// external tools rely on this for stable cross-run item IDs.
type Deriver struct {
	Namespace uuid.UUID
	Owners    Ownership
}

// Derive returns the identifier for path, or ok=false when no ownership
// prefix matches. An unowned path is not an error; downstream formats embed
// a null identifier for it.
func (d Deriver) Derive(path string) (string, bool) {
	for _, o := range d.Owners {
		if strings.HasPrefix(path, o.Prefix) {
			name := strings.ToLower(o.ContentPackID) + ":" + strings.ToLower(path)
			return uuid.NewSHA1(d.Namespace, []byte(name)).String(), true
		}
	}
	return "", false
}
