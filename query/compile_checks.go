package query

import (
	"github.com/goliatone/go-blocktag/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[ResolveEntityMessage, EntityResult]          = (*ResolveEntityQuery)(nil)
	_ gocmd.Querier[SerializeEntityMessage, any]                 = (*SerializeEntityQuery)(nil)
	_ gocmd.Querier[DescribeBindingsMessage, core.BindingReport] = (*DescribeBindingsQuery)(nil)
	_ EntityReader                                               = (*core.Resolver)(nil)
	_ BindingsReader                                             = (*core.Resolver)(nil)
)
