//go:build linux

package netlink

import (
	"fmt"
	"sync"

	"github.com/yaotthaha/ipsetd/ipset"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

var _ ipset.Service = (*Service)(nil)

type Service struct {
	typesLock sync.Mutex
	loaded    bool
	protocol  func() (uint8, uint8, error)
}

func NewService() *Service {
	return &Service{
		protocol: queryProtocol,
	}
}

func queryProtocol() (uint8, uint8, error) {
	handle, err := netlink.NewHandle(unix.NETLINK_NETFILTER)
	if err != nil {
		return 0, 0, fmt.Errorf("open netlink handle: %w", err)
	}
	defer handle.Close()
	return handle.IpsetProtocol()
}

// LoadTypes checks that the kernel speaks an ipset protocol version this
// backend understands. Only success is remembered; a failed check is retried
// on the next call.
func (s *Service) LoadTypes() error {
	s.typesLock.Lock()
	defer s.typesLock.Unlock()
	if s.loaded {
		return nil
	}
	protocol, minVersion, err := s.protocol()
	if err != nil {
		return fmt.Errorf("query ipset protocol: %s", describe(cmdAny, err))
	}
	if protocol < protocolMin || minVersion > protocolMax {
		return fmt.Errorf("kernel ipset protocol %d (min %d) is incompatible with %d-%d", protocol, minVersion, protocolMin, protocolMax)
	}
	s.loaded = true
	return nil
}

func (s *Service) OpenSession() (ipset.Session, error) {
	handle, err := netlink.NewHandle(unix.NETLINK_NETFILTER)
	if err != nil {
		return nil, err
	}
	return &session{handle: handle, header: queryHeader}, nil
}

var _ ipset.Session = (*session)(nil)

type session struct {
	handle   *netlink.Handle
	header   func(setName string) (*setHeader, error)
	tolerate bool
	setName  string
	// probed is the header found by the last successful Probe
	probed  *setHeader
	current *setHeader
	entry   *netlink.IPSetEntry
	lastErr string
}

func (s *session) fail(cmd cmdKind, err error) error {
	s.lastErr = describe(cmd, err)
	return err
}

func (s *session) Probe(setName string) bool {
	if validateSetName(setName) != nil {
		return false
	}
	s.probed = nil
	header, err := s.header(setName)
	if err != nil {
		return false
	}
	s.probed = header
	return true
}

func (s *session) Create(setName string, elementType ipset.ElementType) error {
	err := validateSetName(setName)
	if err != nil {
		return s.fail(cmdCreate, err)
	}
	info, ok := lookupType(elementType.Name)
	if !ok {
		return s.fail(cmdCreate, fmt.Errorf("Syntax error: unknown settype %s", elementType.Name))
	}
	if !info.supports(elementType.Family) {
		return s.fail(cmdCreate, fmt.Errorf("Syntax error: protocol family %s is not supported by %s", elementType.Family, info.name))
	}
	err = s.handle.IpsetCreate(setName, info.name, netlink.IpsetCreateOptions{
		Family: nfproto(elementType.Family),
	})
	if err != nil {
		return s.fail(cmdCreate, err)
	}
	s.probed = nil
	return nil
}

func (s *session) SetTolerateDuplicates(tolerate bool) {
	s.tolerate = tolerate
}

func (s *session) ResolveSetName(setName string) error {
	err := validateSetName(setName)
	if err != nil {
		return s.fail(cmdList, err)
	}
	header := s.probed
	if header == nil || header.name != setName {
		header, err = s.header(setName)
		if err != nil {
			return s.fail(cmdList, err)
		}
	}
	s.setName = setName
	s.current = header
	return nil
}

func (s *session) ResolveCommandType(_ ipset.Command) (ipset.ElementType, error) {
	if s.current == nil {
		return ipset.ElementType{}, s.fail(cmdAny, ErrNoSet)
	}
	info, ok := lookupType(s.current.typeName)
	if !ok {
		return ipset.ElementType{}, s.fail(cmdAny, fmt.Errorf("Set %s has type %s which is not supported", s.setName, s.current.typeName))
	}
	family := familyOf(s.current.family)
	if !info.supports(family) {
		return ipset.ElementType{}, s.fail(cmdAny, fmt.Errorf("Set %s has unsupported family %d", s.setName, s.current.family))
	}
	return ipset.ElementType{Name: info.name, Family: family}, nil
}

func (s *session) ParseElement(elementType ipset.ElementType, address string) error {
	addr, err := parseElement(elementType, address)
	if err != nil {
		return s.fail(cmdAny, err)
	}
	s.entry = &netlink.IPSetEntry{
		IP: addr.AsSlice(),
	}
	return nil
}

func (s *session) Execute(cmd ipset.Command) error {
	if s.current == nil {
		return s.fail(cmdAny, ErrNoSet)
	}
	if s.entry == nil {
		return s.fail(cmdAny, ErrNoElement)
	}
	var err error
	switch cmd {
	case ipset.CommandAdd:
		// without Replace the request carries NLM_F_EXCL and the kernel
		// rejects members that are already present
		s.entry.Replace = s.tolerate
		err = s.handle.IpsetAdd(s.setName, s.entry)
	case ipset.CommandDelete:
		err = s.handle.IpsetDel(s.setName, s.entry)
	default:
		err = fmt.Errorf("Unknown command %s", cmd)
	}
	if err != nil {
		return s.fail(commandKind(cmd), err)
	}
	return nil
}

func (s *session) LastErrorMessage() string {
	return s.lastErr
}

func (s *session) Close() error {
	if s.handle != nil {
		s.handle.Close()
	}
	return nil
}

func nfproto(f ipset.Family) uint8 {
	switch f {
	case ipset.FamilyInet4:
		return unix.NFPROTO_IPV4
	case ipset.FamilyInet6:
		return unix.NFPROTO_IPV6
	default:
		return unix.NFPROTO_UNSPEC
	}
}

func familyOf(proto uint8) ipset.Family {
	switch proto {
	case unix.NFPROTO_IPV4:
		return ipset.FamilyInet4
	case unix.NFPROTO_IPV6:
		return ipset.FamilyInet6
	default:
		return ipset.FamilyUnspec
	}
}
