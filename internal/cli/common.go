package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mgpai22/lekh/internal/bookmark"
	"github.com/mgpai22/lekh/internal/store"
	"github.com/mgpai22/lekh/internal/transcript"
)

func transcriptStore() *store.FileStore {
	return store.NewFileStore(cfg.Storage.TranscriptDir, logger)
}

func bookmarkStore() *bookmark.Store {
	return bookmark.New(bookmark.NewFileKV(cfg.Storage.BookmarkFile), logger)
}

// loads and parses a stored transcript
func loadSegments(ctx context.Context, st *store.FileStore, fileID string) (string, []transcript.Segment, error) {
	raw, err := st.LoadTranscript(ctx, fileID)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, fmt.Errorf("transcript %q not found in %s", fileID, st.Dir)
	}
	if err != nil {
		return "", nil, err
	}

	segments := transcript.Parse(raw)
	if len(segments) == 0 {
		return "", nil, fmt.Errorf("transcript %q is empty", fileID)
	}
	return raw, segments, nil
}
