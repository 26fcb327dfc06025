package lookup

import "github.com/goliatone/go-blocktag/core"

var _ core.Lookup = (*Registry)(nil)
