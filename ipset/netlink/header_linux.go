//go:build linux

package netlink

import (
	"errors"
	"strings"

	"github.com/vishvananda/netlink/nl"
	"golang.org/x/sys/unix"
)

// length of struct nfgenmsg preceding the attributes of a reply
const nfgenmsgLen = 4

type setHeader struct {
	name     string
	typeName string
	family   uint8
}

// queryHeader sends IPSET_CMD_HEADER, which returns the set's name, type and
// family without dumping its members.
func queryHeader(setName string) (*setHeader, error) {
	req := nl.NewNetlinkRequest(nl.IPSET_CMD_HEADER|(unix.NFNL_SUBSYS_IPSET<<8), nl.GetIpsetFlags(nl.IPSET_CMD_HEADER))
	req.AddData(&nl.Nfgenmsg{
		NfgenFamily: uint8(unix.AF_NETLINK),
		Version:     nl.NFNETLINK_V0,
	})
	req.AddData(nl.NewRtAttr(nl.IPSET_ATTR_PROTOCOL, nl.Uint8Attr(nl.IPSET_PROTOCOL)))
	req.AddData(nl.NewRtAttr(nl.IPSET_ATTR_SETNAME, nl.ZeroTerminated(setName)))
	msgs, err := req.Execute(unix.NETLINK_NETFILTER, 0)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, unix.ENOENT
	}
	return parseHeader(msgs[0])
}

func parseHeader(msg []byte) (*setHeader, error) {
	if len(msg) < nfgenmsgLen {
		return nil, errors.New("Kernel error received: short ipset header reply")
	}
	attrs, err := nl.ParseRouteAttr(msg[nfgenmsgLen:])
	if err != nil {
		return nil, err
	}
	var header setHeader
	for _, attr := range attrs {
		switch attr.Attr.Type &^ (unix.NLA_F_NESTED | unix.NLA_F_NET_BYTEORDER) {
		case nl.IPSET_ATTR_SETNAME:
			header.name = strings.TrimRight(string(attr.Value), "\x00")
		case nl.IPSET_ATTR_TYPENAME:
			header.typeName = strings.TrimRight(string(attr.Value), "\x00")
		case nl.IPSET_ATTR_FAMILY:
			if len(attr.Value) > 0 {
				header.family = attr.Value[0]
			}
		}
	}
	if header.name == "" || header.typeName == "" {
		return nil, errors.New("Kernel error received: incomplete ipset header reply")
	}
	return &header, nil
}
