//go:build linux

package netlink

import (
	"errors"
	"fmt"

	"github.com/yaotthaha/ipsetd/ipset"

	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"
)

// Kernel ipset error numbers (enum ipset_errno in linux/netfilter/ipset/ip_set.h).
const (
	errPrivate unix.Errno = 4096 + iota
	errProtocol
	errFindType
	errMaxSets
	errBusy
	errExistSetName2
	errTypeMismatch
	errExist
	errInvalidCIDR
	errInvalidNetmask
	errInvalidFamily
	errTimeout
	errReferenced
	errIPAddrIPv4
	errIPAddrIPv6
)

const errHashFull unix.Errno = 4352

type errcode struct {
	errno unix.Errno
	cmd   cmdKind
	msg   string
}

type cmdKind uint8

const (
	cmdAny cmdKind = iota
	cmdCreate
	cmdList
	cmdAdd
	cmdDel
)

var errcodes = []errcode{
	{unix.ENOENT, cmdAny, "The set with the given name does not exist"},
	{unix.EPERM, cmdAny, "Kernel error received: Operation not permitted"},
	{unix.EMSGSIZE, cmdAny, "Kernel error received: message could not be created"},
	{errProtocol, cmdAny, "Kernel error received: ipset protocol error"},
	{errTimeout, cmdAny, "Timeout cannot be used: set was created without timeout support"},
	{errIPAddrIPv4, cmdAny, "An IPv4 address is expected, but not received"},
	{errIPAddrIPv6, cmdAny, "An IPv6 address is expected, but not received"},

	{unix.EEXIST, cmdCreate, "Set cannot be created: set with the same name already exists"},
	{errExist, cmdCreate, "Set cannot be created: set with the same name already exists"},
	{errFindType, cmdCreate, "Kernel error received: set type not supported"},
	{errMaxSets, cmdCreate, "Kernel error received: maximal number of sets reached, cannot create more."},
	{errInvalidFamily, cmdCreate, "The protocol family not supported by the set type"},

	{errExist, cmdAdd, "Element cannot be added to the set: it's already added"},
	{errHashFull, cmdAdd, "Hash is full, cannot add more elements"},

	{errExist, cmdDel, "Element cannot be deleted from the set: it's not added"},
}

// describe renders a netlink error the way the ipset tool reports it.
func describe(cmd cmdKind, err error) string {
	errno, ok := errnoOf(err)
	if !ok {
		return err.Error()
	}
	var generic string
	for _, e := range errcodes {
		if e.errno != errno {
			continue
		}
		if e.cmd == cmd {
			return e.msg
		}
		if e.cmd == cmdAny {
			generic = e.msg
		}
	}
	if generic != "" {
		return generic
	}
	if errno >= errPrivate {
		return fmt.Sprintf("Kernel error received: ipset error %d", int(errno))
	}
	return fmt.Sprintf("Kernel error received: %s", errno.Error())
}

// errnoOf extracts the kernel errno. The netlink library reports ipset
// private codes (>= 4096) as nl.IPSetError instead of unix.Errno.
func errnoOf(err error) (unix.Errno, bool) {
	var ipsetErr nl.IPSetError
	if errors.As(err, &ipsetErr) {
		return unix.Errno(ipsetErr), true
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return errno, true
	}
	return 0, false
}

func commandKind(cmd ipset.Command) cmdKind {
	switch cmd {
	case ipset.CommandAdd:
		return cmdAdd
	case ipset.CommandDelete:
		return cmdDel
	default:
		return cmdAny
	}
}
