// Package nftables keeps single host sets in an nftables table.
package nftables

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/yaotthaha/ipsetd/ipset"
)

var (
	ErrOSNotSupported = errors.New("nftables: OS not supported")
	ErrTableNotFound  = errors.New("nftables: table not found")
	ErrNoSet          = errors.New("nftables: no set resolved")
	ErrNoElement      = errors.New("nftables: no element parsed")
)

// TableFamily is the nftables family of the table holding the sets.
type TableFamily string

const (
	TableFamilyInet TableFamily = "inet"
	TableFamilyIP   TableFamily = "ip"
	TableFamilyIP6  TableFamily = "ip6"
)

func ParseTableFamily(s string) (TableFamily, error) {
	switch TableFamily(s) {
	case "":
		return TableFamilyInet, nil
	case TableFamilyInet, TableFamilyIP, TableFamilyIP6:
		return TableFamily(s), nil
	default:
		return "", fmt.Errorf("nftables: unknown table family %s", s)
	}
}

// accepts reports whether a set of family f may live in a table of family t.
func (t TableFamily) accepts(f ipset.Family) bool {
	switch t {
	case TableFamilyIP:
		return f == ipset.FamilyInet4
	case TableFamilyIP6:
		return f == ipset.FamilyInet6
	default:
		return f == ipset.FamilyInet4 || f == ipset.FamilyInet6
	}
}

const (
	keyTypeIPv4 = "ipv4_addr"
	keyTypeIPv6 = "ipv6_addr"
)

func familyOfKeyType(name string) (ipset.Family, bool) {
	switch name {
	case keyTypeIPv4:
		return ipset.FamilyInet4, true
	case keyTypeIPv6:
		return ipset.FamilyInet6, true
	default:
		return ipset.FamilyUnspec, false
	}
}

func parseElement(elementType ipset.ElementType, address string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(address)
	if err == nil && addr.Zone() == "" {
		if elementType.Family == ipset.FamilyInet4 && addr.Is4() || elementType.Family == ipset.FamilyInet6 && addr.Is6() {
			return addr, nil
		}
	}
	want := keyTypeIPv4
	if elementType.Family == ipset.FamilyInet6 {
		want = keyTypeIPv6
	}
	return netip.Addr{}, fmt.Errorf("Error: Could not parse %s: %s expected", address, want)
}
