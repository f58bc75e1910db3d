//go:build linux

package nftables

import (
	"bytes"
	"errors"
	"fmt"
	"net/netip"
	"sync"

	"github.com/yaotthaha/ipsetd/ipset"

	"github.com/google/nftables"
	"golang.org/x/sys/unix"
)

var _ ipset.Service = (*Service)(nil)

type Service struct {
	tableName   string
	tableFamily TableFamily

	lookupTable func() (*nftables.Table, error)

	typesLock sync.Mutex
	table     *nftables.Table
}

func NewService(tableName string, family TableFamily) (*Service, error) {
	if tableName == "" {
		return nil, errors.New("nftables: table name is required")
	}
	s := &Service{
		tableName:   tableName,
		tableFamily: family,
	}
	s.lookupTable = s.findTable
	return s, nil
}

func (s *Service) nftFamily() nftables.TableFamily {
	switch s.tableFamily {
	case TableFamilyIP:
		return nftables.TableFamilyIPv4
	case TableFamilyIP6:
		return nftables.TableFamilyIPv6
	default:
		return nftables.TableFamilyINet
	}
}

func (s *Service) findTable() (*nftables.Table, error) {
	conn, err := nftables.New()
	if err != nil {
		return nil, err
	}
	defer conn.CloseLasting()
	tables, err := conn.ListTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	family := s.nftFamily()
	for _, table := range tables {
		if table.Name == s.tableName && table.Family == family {
			return table, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s", ErrTableNotFound, s.tableFamily, s.tableName)
}

// LoadTypes looks up the configured table. Once found it is kept; a missing
// table is looked up again on the next call, since the firewall may create
// it later.
func (s *Service) LoadTypes() error {
	s.typesLock.Lock()
	defer s.typesLock.Unlock()
	if s.table != nil {
		return nil
	}
	table, err := s.lookupTable()
	if err != nil {
		return err
	}
	s.table = table
	return nil
}

func (s *Service) loadedTable() *nftables.Table {
	s.typesLock.Lock()
	defer s.typesLock.Unlock()
	return s.table
}

func (s *Service) OpenSession() (ipset.Session, error) {
	table := s.loadedTable()
	if table == nil {
		return nil, ErrTableNotFound
	}
	conn, err := nftables.New()
	if err != nil {
		return nil, err
	}
	return &session{service: s, table: table, conn: conn}, nil
}

var _ ipset.Session = (*session)(nil)

type session struct {
	service  *Service
	table    *nftables.Table
	conn     *nftables.Conn
	tolerate bool
	set      *nftables.Set
	element  netip.Addr
	lastErr  string
}

func (s *session) fail(err error) error {
	s.lastErr = err.Error()
	return err
}

func (s *session) Probe(setName string) bool {
	_, err := s.conn.GetSetByName(s.table, setName)
	return err == nil
}

func (s *session) Create(setName string, elementType ipset.ElementType) error {
	if elementType.Name != ipset.TypeHashIP {
		return s.fail(fmt.Errorf("Error: set type %s is not supported", elementType.Name))
	}
	if !s.service.tableFamily.accepts(elementType.Family) {
		return s.fail(fmt.Errorf("Error: %s set cannot be created in %s table %s", elementType.Family, s.service.tableFamily, s.service.tableName))
	}
	keyType := nftables.TypeIPAddr
	if elementType.Family == ipset.FamilyInet6 {
		keyType = nftables.TypeIP6Addr
	}
	err := s.conn.AddSet(&nftables.Set{
		Table:   s.table,
		Name:    setName,
		KeyType: keyType,
	}, nil)
	if err != nil {
		return s.fail(err)
	}
	err = s.conn.Flush()
	if err != nil {
		if errors.Is(err, unix.EEXIST) {
			return s.fail(fmt.Errorf("Error: set %s already exists", setName))
		}
		return s.fail(err)
	}
	return nil
}

func (s *session) SetTolerateDuplicates(tolerate bool) {
	s.tolerate = tolerate
}

func (s *session) ResolveSetName(setName string) error {
	set, err := s.conn.GetSetByName(s.table, setName)
	if err != nil {
		return s.fail(fmt.Errorf("Error: No such file or directory; did you mean set %s in table %s?", setName, s.service.tableName))
	}
	s.set = set
	return nil
}

func (s *session) ResolveCommandType(_ ipset.Command) (ipset.ElementType, error) {
	if s.set == nil {
		return ipset.ElementType{}, s.fail(ErrNoSet)
	}
	if s.set.Interval {
		return ipset.ElementType{}, s.fail(fmt.Errorf("Error: set %s is not a single host set", s.set.Name))
	}
	family, ok := familyOfKeyType(s.set.KeyType.Name)
	if !ok {
		return ipset.ElementType{}, s.fail(fmt.Errorf("Error: set %s has key type %s which is not supported", s.set.Name, s.set.KeyType.Name))
	}
	return ipset.ElementType{Name: ipset.TypeHashIP, Family: family}, nil
}

func (s *session) ParseElement(elementType ipset.ElementType, address string) error {
	addr, err := parseElement(elementType, address)
	if err != nil {
		return s.fail(err)
	}
	s.element = addr
	return nil
}

func (s *session) contains(addr netip.Addr) (bool, error) {
	elements, err := s.conn.GetSetElements(s.set)
	if err != nil {
		return false, err
	}
	key := addr.AsSlice()
	for _, e := range elements {
		if bytes.Equal(e.Key, key) {
			return true, nil
		}
	}
	return false, nil
}

func (s *session) Execute(cmd ipset.Command) error {
	if s.set == nil {
		return s.fail(ErrNoSet)
	}
	if !s.element.IsValid() {
		return s.fail(ErrNoElement)
	}
	elements := []nftables.SetElement{{Key: s.element.AsSlice()}}
	switch cmd {
	case ipset.CommandAdd:
		if !s.tolerate {
			present, err := s.contains(s.element)
			if err != nil {
				return s.fail(err)
			}
			if present {
				return s.fail(errors.New("Element cannot be added to the set: it's already added"))
			}
		}
		err := s.conn.SetAddElements(s.set, elements)
		if err != nil {
			return s.fail(err)
		}
	case ipset.CommandDelete:
		present, err := s.contains(s.element)
		if err != nil {
			return s.fail(err)
		}
		if !present {
			return s.fail(errors.New("Element cannot be deleted from the set: it's not added"))
		}
		err = s.conn.SetDeleteElements(s.set, elements)
		if err != nil {
			return s.fail(err)
		}
	default:
		return s.fail(fmt.Errorf("Unknown command %s", cmd))
	}
	err := s.conn.Flush()
	if err != nil {
		if cmd == ipset.CommandDelete && errors.Is(err, unix.ENOENT) {
			return s.fail(errors.New("Element cannot be deleted from the set: it's not added"))
		}
		return s.fail(err)
	}
	return nil
}

func (s *session) LastErrorMessage() string {
	return s.lastErr
}

func (s *session) Close() error {
	return s.conn.CloseLasting()
}
