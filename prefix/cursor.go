package prefix

import (
	"errors"
	"sync/atomic"

	"github.com/ledokol-inc/socialload/generator"
)

var ErrNoPrefixes = errors.New("prefix sequence is empty")

// Cursor hands out prefixes from a fixed sequence in order, wrapping around at
// the end. It is safe for concurrent use.
type Cursor struct {
	prefixes []generator.PrefixRecord
	next     atomic.Uint64
}

func NewCursor(prefixes []generator.PrefixRecord) (*Cursor, error) {
	if len(prefixes) == 0 {
		return nil, ErrNoPrefixes
	}
	return &Cursor{prefixes: append([]generator.PrefixRecord(nil), prefixes...)}, nil
}

func (cursor *Cursor) Next() generator.PrefixRecord {
	i := cursor.next.Add(1) - 1
	return cursor.prefixes[i%uint64(len(cursor.prefixes))]
}

func (cursor *Cursor) Len() int {
	return len(cursor.prefixes)
}
