package locations

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/hetulpatel/Randex/internal/hashutil"
	"github.com/hetulpatel/Randex/internal/logging"
)

// Cache stores parsed lookups keyed by a content hash of the source file.
type Cache interface {
	Get(ctx context.Context, key string) ([]Entry, bool, error)
	Set(ctx context.Context, key string, entries []Entry) error
}

// Loader reads Path on every call. When Cache is set, files whose content was
// already parsed are served from it. Cache failures only cost a re-parse.
type Loader struct {
	Path  string
	Cache Cache
}

func (l *Loader) Load(ctx context.Context) (*Lookup, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDataUnavailable, l.Path, err)
	}
	if l.Cache == nil {
		return Parse(bytes.NewReader(data))
	}

	key := hashutil.HashBytes(data)
	entries, ok, err := l.Cache.Get(ctx, key)
	if err != nil {
		logging.Warnf("[locations] cache get %s: %v", key[:12], err)
	}
	if ok {
		logging.Debugf("[locations] cache hit for %s", l.Path)
		return FromEntries(entries), nil
	}

	lookup, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := l.Cache.Set(ctx, key, lookup.Entries()); err != nil {
		logging.Warnf("[locations] cache set %s: %v", key[:12], err)
	}
	return lookup, nil
}
