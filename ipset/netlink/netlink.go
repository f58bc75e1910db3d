// Package netlink drives the kernel ipset subsystem over netlink.
package netlink

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/yaotthaha/ipsetd/ipset"
)

var (
	ErrOSNotSupported = errors.New("netlink: OS not supported")
	ErrNoSet          = errors.New("netlink: no set resolved")
	ErrNoElement      = errors.New("netlink: no element parsed")
)

// MaxSetNameLen is IPSET_MAXNAMELEN including the terminating NUL.
const MaxSetNameLen = 32

// Kernel ipset protocol versions this backend speaks.
const (
	protocolMin = 6
	protocolMax = 7
)

// typeInfo describes a set type the backend knows how to drive.
type typeInfo struct {
	name     string
	families []ipset.Family
}

func (t typeInfo) supports(f ipset.Family) bool {
	for _, family := range t.families {
		if family == f {
			return true
		}
	}
	return false
}

var knownTypes = []typeInfo{
	{name: ipset.TypeHashIP, families: []ipset.Family{ipset.FamilyInet4, ipset.FamilyInet6}},
}

func lookupType(name string) (typeInfo, bool) {
	for _, t := range knownTypes {
		if t.name == name {
			return t, true
		}
	}
	return typeInfo{}, false
}

func validateSetName(name string) error {
	if name == "" {
		return errors.New("Syntax error: setname must not be empty")
	}
	if len(name) > MaxSetNameLen-1 {
		return fmt.Errorf("Syntax error: setname '%s' is longer than %d characters", name, MaxSetNameLen-1)
	}
	return nil
}

func parseElement(elementType ipset.ElementType, address string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(address)
	if err == nil && addr.Zone() == "" {
		switch {
		case elementType.Family == ipset.FamilyInet4 && addr.Is4():
			return addr, nil
		case elementType.Family == ipset.FamilyInet6 && addr.Is6():
			return addr, nil
		}
	}
	name := "IPv4"
	if elementType.Family == ipset.FamilyInet6 {
		name = "IPv6"
	}
	return netip.Addr{}, fmt.Errorf("Syntax error: cannot parse %s: resolving to %s address failed", address, name)
}
