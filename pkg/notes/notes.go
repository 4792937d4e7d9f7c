// Package notes defines the value types shared by the workspace model and
// the controllers: authors, notes and their privacy levels.
package notes

import (
	"fmt"
	"strconv"
	"sync/atomic"
	"time"
)

// Privacy is the visibility level of a note.
type Privacy int

const (
	Private Privacy = iota
	Protected
	Public
)

// DefaultPrivacy is applied to notes created without an explicit level.
const DefaultPrivacy = Protected

func (p Privacy) String() string {
	switch p {
	case Private:
		return "private"
	case Protected:
		return "protected"
	case Public:
		return "public"
	default:
		return fmt.Sprintf("privacy(%d)", int(p))
	}
}

// Author identifies who wrote a note. Authors are immutable once constructed;
// identity is the ID field.
type Author struct {
	ID   string
	Name string
}

// Note is a single markdown item. Notes are shared by reference between the
// workspace registries and column maps; Privacy and Score are mutated in
// place by controller operations, everything else is fixed at construction.
type Note struct {
	ID        string
	Author    *Author
	Content   string
	CreationS int64
	Privacy   Privacy

	// Score is set only on notes produced by a search or ranking operation.
	Score *float64

	// System marks synthetic notes the controllers insert to surface
	// errors. System note ids are derived from a negated timestamp so
	// they cannot collide with server-issued ids.
	System bool
}

// New constructs a note with the default privacy level and no score.
func New(id string, author *Author, content string, creationS int64) *Note {
	return &Note{
		ID:        id,
		Author:    author,
		Content:   content,
		CreationS: creationS,
		Privacy:   DefaultPrivacy,
	}
}

// ScoreOrZero returns the relevance score, treating an absent score as 0.
func (n *Note) ScoreOrZero() float64 {
	if n.Score == nil {
		return 0
	}
	return *n.Score
}

var lastErrorID atomic.Int64

// nextErrorID derives a negative id from the timestamp, decrementing past the
// last issued id when several notes land in the same millisecond. Ids are
// strictly decreasing, so concurrent callers never collide.
func nextErrorID(now time.Time) int64 {
	for {
		candidate := -now.UnixMilli()
		last := lastErrorID.Load()
		if last != 0 && candidate >= last {
			candidate = last - 1
		}
		if lastErrorID.CompareAndSwap(last, candidate) {
			return candidate
		}
	}
}

// NewErrorNote builds a system note carrying a failure message so the
// workspace stays renderable when a remote call fails.
func NewErrorNote(title string, cause error) *Note {
	now := time.Now()
	return &Note{
		ID:        strconv.FormatInt(nextErrorID(now), 10),
		Author:    &Author{Name: "Notes Server"},
		Content:   fmt.Sprintf("# %s\n\n**Error:** `%v`", title, cause),
		CreationS: now.Unix(),
		Privacy:   Private,
		System:    true,
	}
}
