package ipset

// TypeHashIP is the only set type the manager creates: one IPv4 or IPv6 host
// address per element.
const TypeHashIP = "hash:ip"

// ElementType names a set type and the family its elements belong to.
type ElementType struct {
	Name   string
	Family Family
}

func (t ElementType) String() string {
	return t.Name + " family " + t.Family.String()
}

// Service is a set-storage engine such as the kernel ipset subsystem.
type Service interface {
	// LoadTypes loads the engine's type metadata. It is called before every
	// session is opened and must only do real work once.
	LoadTypes() error
	OpenSession() (Session, error)
}

// Session is a request/response handle owned by a single operation. Methods
// report failures through their error and keep a human readable diagnostic
// for LastErrorMessage.
type Session interface {
	Probe(setName string) bool
	Create(setName string, elementType ElementType) error
	SetTolerateDuplicates(tolerate bool)
	ResolveSetName(setName string) error
	ResolveCommandType(cmd Command) (ElementType, error)
	ParseElement(elementType ElementType, address string) error
	Execute(cmd Command) error
	LastErrorMessage() string
	Close() error
}
