package command

import (
	"github.com/goliatone/go-blocktag/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Commander[DeserializeMessage] = (*DeserializeCommand)(nil)
	_ gocmd.Commander[WarmupMessage]      = (*WarmupCommand)(nil)
	_ MutatingResolver                    = (*core.Resolver)(nil)
)
