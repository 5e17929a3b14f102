package stickers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/weather-stickers/internal/telegram"
)

// fakeAPI records Bot API calls as short strings.
type fakeAPI struct {
	set      *telegram.StickerSet
	getErr   error
	failOn   map[string]bool
	calls    []string
	uploaded int
}

func (f *fakeAPI) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn[call] {
		return &telegram.APIError{Code: 400, Description: "Bad Request: " + call}
	}
	return nil
}

func (f *fakeAPI) GetStickerSet(ctx context.Context, name string) (*telegram.StickerSet, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.set == nil {
		return nil, errors.New("no set configured")
	}
	return f.set, nil
}

func (f *fakeAPI) CreateNewStickerSet(ctx context.Context, userID int64, name, title string, stickers []telegram.InputSticker) error {
	ids := make([]string, len(stickers))
	for i, s := range stickers {
		ids[i] = s.Sticker
	}
	return f.record(fmt.Sprintf("create %s", strings.Join(ids, ",")))
}

func (f *fakeAPI) ReplaceStickerInSet(ctx context.Context, userID int64, name, oldFileID string, sticker telegram.InputSticker) error {
	return f.record(fmt.Sprintf("replace %s->%s", oldFileID, sticker.Sticker))
}

func (f *fakeAPI) AddStickerToSet(ctx context.Context, userID int64, name string, sticker telegram.InputSticker) error {
	return f.record("add " + sticker.Sticker)
}

func (f *fakeAPI) DeleteStickerFromSet(ctx context.Context, fileID string) error {
	return f.record("delete " + fileID)
}

func (f *fakeAPI) UploadStickerFile(ctx context.Context, userID int64, filename string, png []byte) (string, error) {
	f.uploaded++
	id := fmt.Sprintf("F%d", f.uploaded)
	f.calls = append(f.calls, "upload "+filename)
	return id, nil
}

func setOf(ids ...string) *telegram.StickerSet {
	set := &telegram.StickerSet{Name: "weather_by_bot"}
	for _, id := range ids {
		set.Stickers = append(set.Stickers, telegram.Sticker{FileID: id})
	}
	return set
}

func inputs(ids ...string) []telegram.InputSticker {
	out := make([]telegram.InputSticker, len(ids))
	for i, id := range ids {
		out[i] = telegram.InputSticker{Sticker: id, Format: telegram.StickerFormatStatic, EmojiList: []string{"🏙️"}}
	}
	return out
}
