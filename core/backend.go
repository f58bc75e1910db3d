package core

import (
	"fmt"

	"github.com/yaotthaha/ipsetd/constant"
	"github.com/yaotthaha/ipsetd/ipset"
	"github.com/yaotthaha/ipsetd/ipset/memory"
	"github.com/yaotthaha/ipsetd/ipset/netlink"
	"github.com/yaotthaha/ipsetd/ipset/nftables"
	"github.com/yaotthaha/ipsetd/option"
)

// NewService returns the set service selected by the backend options.
func NewService(options option.BackendOptions) (ipset.Service, error) {
	switch options.Type {
	case "", constant.BackendNetlink:
		return netlink.NewService(), nil
	case constant.BackendNftables:
		if options.NftablesOptions == nil {
			return nil, fmt.Errorf("backend %s: missing options", options.Type)
		}
		family, err := nftables.ParseTableFamily(options.NftablesOptions.Family)
		if err != nil {
			return nil, err
		}
		return nftables.NewService(options.NftablesOptions.Table, family)
	case constant.BackendMemory:
		return memory.NewService(), nil
	default:
		return nil, fmt.Errorf("backend type %s is not supported", options.Type)
	}
}
