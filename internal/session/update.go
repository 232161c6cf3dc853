package session

import (
	"github.com/mgpai22/lekh/internal/transcript"
)

type UpdateKind int

const (
	UpdateActive UpdateKind = iota
	UpdateInactive
	UpdateTranslation
	UpdateTranslationError
	UpdateBookmark
	UpdateBookmarkAffordance
	UpdateSaved
	UpdateSaveFailed
	UpdateHistory
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateActive:
		return "active"
	case UpdateInactive:
		return "inactive"
	case UpdateTranslation:
		return "translation"
	case UpdateTranslationError:
		return "translation_error"
	case UpdateBookmark:
		return "bookmark"
	case UpdateBookmarkAffordance:
		return "bookmark_affordance"
	case UpdateSaved:
		return "saved"
	case UpdateSaveFailed:
		return "save_failed"
	case UpdateHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Update is one incremental change for the rendering layer. Only the fields
// relevant to Kind are set.
type Update struct {
	Kind  UpdateKind
	Index int

	// Active: bring the segment into view
	Scroll bool

	// Translation and TranslationError
	Language string
	Text     string

	// Bookmark: Index is bookmarked. BookmarkAffordance: the active
	// segment is the bookmarked one.
	Bookmarked bool

	// Saved
	Count int
	// SaveFailed
	Err error

	// History
	CanUndo bool
	CanRedo bool
}

// Renderer applies engine output to a presentation. Implementations must not
// block; updates can arrive from timer and network goroutines.
type Renderer interface {
	Render(segments []transcript.Segment)
	Update(u Update)
}

type nopRenderer struct{}

func (nopRenderer) Render([]transcript.Segment) {}
func (nopRenderer) Update(Update)               {}
