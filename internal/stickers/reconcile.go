package stickers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/i474232898/weather-stickers/internal/telegram"
)

// SetEditor is the part of the Bot API used to reconcile a sticker set.
type SetEditor interface {
	GetStickerSet(ctx context.Context, name string) (*telegram.StickerSet, error)
	CreateNewStickerSet(ctx context.Context, userID int64, name, title string, stickers []telegram.InputSticker) error
	ReplaceStickerInSet(ctx context.Context, userID int64, name, oldFileID string, sticker telegram.InputSticker) error
	AddStickerToSet(ctx context.Context, userID int64, name string, sticker telegram.InputSticker) error
	DeleteStickerFromSet(ctx context.Context, fileID string) error
}

// Target identifies the remote sticker set and its owner.
type Target struct {
	Owner int64
	Name  string
	Title string
}

// Reconcile makes the remote set match fresh, position by position.
//
// A missing set is created with all of fresh. Otherwise the first
// min(len(old), len(fresh)) stickers are replaced in place, then the tail of
// fresh is appended or the tail of the old set is deleted. Failures of single
// replace/add/delete calls are logged and recorded but never stop the pass.
func Reconcile(ctx context.Context, api SetEditor, target Target, fresh []telegram.InputSticker, logger *zap.Logger) (ReconcileResult, error) {
	var res ReconcileResult

	set, err := api.GetStickerSet(ctx, target.Name)
	if err != nil {
		if !telegram.IsStickerSetNotFound(err) {
			return res, fmt.Errorf("get sticker set %s: %w", target.Name, err)
		}
		logger.Info("sticker set not found, creating", zap.String("set", target.Name), zap.Error(err))
		if err := api.CreateNewStickerSet(ctx, target.Owner, target.Name, target.Title, fresh); err != nil {
			return res, fmt.Errorf("create sticker set %s: %w", target.Name, err)
		}
		res.Created = true
		logger.Info("created sticker set", zap.String("set", target.Name), zap.Int("stickers", len(fresh)))
		return res, nil
	}

	old := set.Stickers
	shared := min(len(old), len(fresh))

	fail := func(op string, i int, fileID string, err error) {
		logger.Error("sticker "+op+" failed", zap.Int("position", i), zap.String("file_id", fileID), zap.Error(err))
		res.Failures = append(res.Failures, Failure{Op: op, Index: i, FileID: fileID, Error: err.Error()})
	}

	for i := 0; i < shared; i++ {
		oldID := old[i].FileID
		if err := api.ReplaceStickerInSet(ctx, target.Owner, target.Name, oldID, fresh[i]); err != nil {
			fail("replace", i, oldID, err)
			continue
		}
		res.Replaced++
		logger.Info("replaced sticker", zap.Int("position", i), zap.String("old_file_id", oldID))
	}

	switch {
	case len(fresh) > len(old):
		for i := shared; i < len(fresh); i++ {
			if err := api.AddStickerToSet(ctx, target.Owner, target.Name, fresh[i]); err != nil {
				fail("add", i, fresh[i].Sticker, err)
				continue
			}
			res.Added++
			logger.Info("added sticker", zap.Int("position", i))
		}
	case len(old) > len(fresh):
		for i := shared; i < len(old); i++ {
			oldID := old[i].FileID
			if err := api.DeleteStickerFromSet(ctx, oldID); err != nil {
				fail("delete", i, oldID, err)
				continue
			}
			res.Deleted++
			logger.Info("deleted sticker", zap.Int("position", i), zap.String("file_id", oldID))
		}
	}

	logger.Info("updated sticker set",
		zap.String("set", target.Name),
		zap.Int("stickers", len(fresh)),
		zap.Int("failures", len(res.Failures)))
	return res, nil
}
