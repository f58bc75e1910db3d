package adapter

import (
	"context"

	"github.com/yaotthaha/ipsetd/ipset"
)

// SetManager is the part of *ipset.Manager the API server and the sources
// drive.
type SetManager interface {
	AddAddressToSet(ctx context.Context, setName string, address string) error
	RemoveAddressFromSet(ctx context.Context, setName string, address string) error
	Do(ctx context.Context, cmd ipset.Command, setName string, address string) error
}

var _ SetManager = (*ipset.Manager)(nil)
