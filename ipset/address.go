package ipset

import (
	"net/netip"
	"strings"
)

// Family is the address family of a set or an element, using the netfilter
// protocol numbers the kernel expects.
type Family uint8

const (
	FamilyUnspec Family = 0
	FamilyInet4  Family = 2
	FamilyInet6  Family = 10
)

func (f Family) String() string {
	switch f {
	case FamilyInet4:
		return "inet"
	case FamilyInet6:
		return "inet6"
	default:
		return "unspec"
	}
}

// FamilyOf infers the family from the literal alone: any '.' means IPv4,
// everything else is taken as IPv6.
func FamilyOf(address string) Family {
	if strings.Contains(address, ".") {
		return FamilyInet4
	}
	return FamilyInet6
}

// ParseAddress parses address strictly within the family FamilyOf picks.
// There is no fallback to the other family, so an IPv4-mapped IPv6 literal
// such as "::ffff:192.0.2.1" is rejected.
func ParseAddress(address string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return netip.Addr{}, false
	}
	switch FamilyOf(address) {
	case FamilyInet4:
		if !addr.Is4() {
			return netip.Addr{}, false
		}
	default:
		if !addr.Is6() || addr.Zone() != "" {
			return netip.Addr{}, false
		}
	}
	return addr, true
}

// Validate reports whether address is a host literal the manager will act on.
func Validate(address string) bool {
	_, ok := ParseAddress(address)
	return ok
}
