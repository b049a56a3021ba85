package assets

import (
	"context"
	"fmt"
	"log/slog"

	"coursehost/internal/model"
)

// Emit writes the diagnostic lines for r at the given level.
//
// A missing directory produces exactly one line. Otherwise the entry file
// check is reported, followed by either the listing error or one line per
// child.
func Emit(ctx context.Context, logger *slog.Logger, level slog.Level, r model.AssetReport) {
	if !r.DirFound {
		logger.Log(ctx, level, fmt.Sprintf("%s %s directory NOT found", model.IconMissing, r.Label), "dir", r.Dir)
		return
	}
	logger.Log(ctx, level, fmt.Sprintf("%s Found %s directory", model.IconFound, r.Label), "dir", r.Dir)
	if r.EntryFound {
		logger.Log(ctx, level, fmt.Sprintf("%s Found %s in %s directory", model.IconFound, r.EntryFile, r.Label))
	} else {
		logger.Log(ctx, level, fmt.Sprintf("%s %s NOT found in %s directory!", model.IconMissing, r.EntryFile, r.Label))
	}
	if r.ListErr != nil {
		logger.Log(ctx, level, fmt.Sprintf("%s Could not list %s directory", model.IconError, r.Label), "kind", ErrKind(r.ListErr), "err", r.ListErr)
	}
	if len(r.Entries) == 0 && r.ListErr == nil {
		logger.Log(ctx, level, fmt.Sprintf("%s directory is empty", r.Label))
		return
	}
	for _, e := range r.Entries {
		logger.Log(ctx, level, "  - "+e.Path)
	}
}
