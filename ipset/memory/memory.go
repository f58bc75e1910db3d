// Package memory is an in-process set engine with the same membership rules
// as the kernel ipset subsystem. It backs dry-run mode and tests.
package memory

import (
	"errors"
	"fmt"
	"net/netip"
	"sync"

	"github.com/yaotthaha/ipsetd/ipset"

	"go4.org/netipx"
)

var (
	ErrSessionClosed = errors.New("memory: session closed")
	ErrNoSet         = errors.New("memory: no set resolved")
	ErrNoElement     = errors.New("memory: no element parsed")
)

var _ ipset.Service = (*Service)(nil)

type Service struct {
	lock   sync.Mutex
	sets   map[string]*set
	loaded bool
	opened int
	closed int
}

type set struct {
	typ     ipset.ElementType
	builder netipx.IPSetBuilder
	members *netipx.IPSet
}

func (s *set) contains(addr netip.Addr) bool {
	return s.members != nil && s.members.Contains(addr)
}

func (s *set) rebuild() error {
	members, err := s.builder.IPSet()
	if err != nil {
		return err
	}
	s.members = members
	return nil
}

func NewService() *Service {
	return &Service{
		sets: make(map[string]*set),
	}
}

func (s *Service) LoadTypes() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.loaded = true
	return nil
}

func (s *Service) OpenSession() (ipset.Session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.loaded {
		return nil, errors.New("memory: types not loaded")
	}
	s.opened++
	return &session{service: s}, nil
}

// Sessions returns how many sessions were opened and closed so far.
func (s *Service) Sessions() (opened int, closed int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.opened, s.closed
}

// Exists reports whether setName was created.
func (s *Service) Exists(setName string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, ok := s.sets[setName]
	return ok
}

// Type returns the element type setName was created with.
func (s *Service) Type(setName string) (ipset.ElementType, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	st, ok := s.sets[setName]
	if !ok {
		return ipset.ElementType{}, false
	}
	return st.typ, true
}

// Members lists the addresses in setName in ascending order.
func (s *Service) Members(setName string) []netip.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	st, ok := s.sets[setName]
	if !ok || st.members == nil {
		return nil
	}
	var addrs []netip.Addr
	for _, r := range st.members.Ranges() {
		for addr := r.From(); ; addr = addr.Next() {
			addrs = append(addrs, addr)
			if addr == r.To() {
				break
			}
		}
	}
	return addrs
}

var _ ipset.Session = (*session)(nil)

type session struct {
	service  *Service
	closed   bool
	tolerate bool
	setName  string
	set      *set
	element  netip.Addr
	lastErr  string
}

func (s *session) errorf(format string, a ...any) error {
	s.lastErr = fmt.Sprintf(format, a...)
	return errors.New(s.lastErr)
}

func (s *session) Probe(setName string) bool {
	if s.closed {
		return false
	}
	s.service.lock.Lock()
	defer s.service.lock.Unlock()
	_, ok := s.service.sets[setName]
	return ok
}

func (s *session) Create(setName string, elementType ipset.ElementType) error {
	if s.closed {
		return ErrSessionClosed
	}
	if elementType.Name != ipset.TypeHashIP {
		return s.errorf("Kernel error received: set type not supported")
	}
	if elementType.Family != ipset.FamilyInet4 && elementType.Family != ipset.FamilyInet6 {
		return s.errorf("The protocol family not supported by the set type")
	}
	s.service.lock.Lock()
	defer s.service.lock.Unlock()
	if _, ok := s.service.sets[setName]; ok {
		return s.errorf("Set cannot be created: set with the same name already exists")
	}
	s.service.sets[setName] = &set{typ: elementType}
	return nil
}

func (s *session) SetTolerateDuplicates(tolerate bool) {
	s.tolerate = tolerate
}

func (s *session) ResolveSetName(setName string) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.service.lock.Lock()
	defer s.service.lock.Unlock()
	st, ok := s.service.sets[setName]
	if !ok {
		return s.errorf("The set with the given name does not exist")
	}
	s.setName = setName
	s.set = st
	return nil
}

func (s *session) ResolveCommandType(_ ipset.Command) (ipset.ElementType, error) {
	if s.set == nil {
		return ipset.ElementType{}, ErrNoSet
	}
	return s.set.typ, nil
}

func (s *session) ParseElement(elementType ipset.ElementType, address string) error {
	addr, err := netip.ParseAddr(address)
	if err != nil || addr.Zone() != "" {
		return s.errorf("Syntax error: cannot parse %s: resolving to %s address failed", address, familyName(elementType.Family))
	}
	switch {
	case elementType.Family == ipset.FamilyInet4 && !addr.Is4():
		return s.errorf("Syntax error: cannot parse %s: resolving to IPv4 address failed", address)
	case elementType.Family == ipset.FamilyInet6 && !addr.Is6():
		return s.errorf("Syntax error: cannot parse %s: resolving to IPv6 address failed", address)
	}
	s.element = addr
	return nil
}

func (s *session) Execute(cmd ipset.Command) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.set == nil {
		return ErrNoSet
	}
	if !s.element.IsValid() {
		return ErrNoElement
	}
	s.service.lock.Lock()
	defer s.service.lock.Unlock()
	if s.service.sets[s.setName] != s.set {
		return s.errorf("The set with the given name does not exist")
	}
	switch cmd {
	case ipset.CommandAdd:
		if s.set.contains(s.element) {
			if s.tolerate {
				return nil
			}
			return s.errorf("Element cannot be added to the set: it's already added")
		}
		s.set.builder.Add(s.element)
	case ipset.CommandDelete:
		if !s.set.contains(s.element) {
			return s.errorf("Element cannot be deleted from the set: it's not added")
		}
		s.set.builder.Remove(s.element)
	default:
		return s.errorf("Unknown command %s", cmd)
	}
	return s.set.rebuild()
}

func (s *session) LastErrorMessage() string {
	return s.lastErr
}

func (s *session) Close() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	s.service.lock.Lock()
	s.service.closed++
	s.service.lock.Unlock()
	return nil
}

func familyName(f ipset.Family) string {
	if f == ipset.FamilyInet6 {
		return "IPv6"
	}
	return "IPv4"
}
