package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/stitchlist/internal/database/repository"
)

var starterItems = []string{
	"Drag a row with the mouse to reorder it",
	"Press J or K to move the selected row",
	"Press / to filter, m to switch between shift and swap",
	"Press x to mark a row done",
}

// SourceID is the stable id of the source called name.
func SourceID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("source:"+strings.TrimSpace(name))).String()
}

// SeedSources ensures the named sources exist for new databases, and gives
// the first one a few starter items. It is idempotent and safe to run on
// every startup.
func SeedSources(ctx context.Context, db *sql.DB, names []string) error {
	sources := repository.NewSourceRepo(db)
	existing, err := sources.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	items := repository.NewItemRepo(db)
	for idx, raw := range names {
		name := strings.TrimSpace(raw)
		s := repository.Source{ID: SourceID(name), Name: name, SortOrder: idx}
		if err := sources.Upsert(ctx, s); err != nil {
			return err
		}
		if idx > 0 {
			continue
		}
		for _, title := range starterItems {
			if _, err := items.Insert(ctx, s.ID, title); err != nil {
				return err
			}
		}
	}
	return nil
}
