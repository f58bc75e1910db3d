package ipset

import (
	"context"
	"fmt"

	"github.com/yaotthaha/ipsetd/log"
)

// Manager adds and removes single host addresses in named sets of a Service,
// creating a missing set on demand. Every call opens its own session, so a
// Manager can be shared between goroutines.
type Manager struct {
	service Service
	logger  log.ContextLogger
}

func NewManager(service Service, logger log.ContextLogger) *Manager {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Manager{
		service: service,
		logger:  logger,
	}
}

// AddAddressToSet makes address a member of setName. Adding a member that is
// already present succeeds.
func (m *Manager) AddAddressToSet(ctx context.Context, setName string, address string) error {
	err := m.execute(ctx, CommandAdd, setName, address)
	if err != nil {
		return err
	}
	m.logger.InfoContext(ctx, fmt.Sprintf("added %s to %s", address, setName))
	return nil
}

// RemoveAddressFromSet removes address from setName. It fails if address is
// not a member.
func (m *Manager) RemoveAddressFromSet(ctx context.Context, setName string, address string) error {
	err := m.execute(ctx, CommandDelete, setName, address)
	if err != nil {
		return err
	}
	m.logger.InfoContext(ctx, fmt.Sprintf("deleted %s from %s", address, setName))
	return nil
}

// Do dispatches cmd to AddAddressToSet or RemoveAddressFromSet.
func (m *Manager) Do(ctx context.Context, cmd Command, setName string, address string) error {
	switch cmd {
	case CommandAdd:
		return m.AddAddressToSet(ctx, setName, address)
	case CommandDelete:
		return m.RemoveAddressFromSet(ctx, setName, address)
	default:
		return fmt.Errorf("ipset: unsupported command %s", cmd)
	}
}

func (m *Manager) execute(ctx context.Context, cmd Command, setName string, address string) error {
	if !Validate(address) {
		return m.fail(ctx, &CommandError{
			Kind:    ErrInvalidAddress,
			Command: cmd,
			Set:     setName,
			Address: address,
			Message: fmt.Sprintf("%s is not a valid IP address", address),
		})
	}
	family := FamilyOf(address)

	err := m.service.LoadTypes()
	if err != nil {
		return m.fail(ctx, &CommandError{
			Kind:    ErrSessionInit,
			Command: cmd,
			Set:     setName,
			Address: address,
			Message: fmt.Sprintf("failed to load set types: %s", err),
			Cause:   err,
		})
	}
	session, err := m.service.OpenSession()
	if err != nil {
		return m.fail(ctx, &CommandError{
			Kind:    ErrSessionInit,
			Command: cmd,
			Set:     setName,
			Address: address,
			Message: "failed to initialize session",
			Cause:   err,
		})
	}
	defer func() {
		err := session.Close()
		if err != nil {
			m.logger.DebugContext(ctx, fmt.Sprintf("close session: %s", err))
		}
	}()

	// A failed create is only reported: the command below runs anyway and its
	// own failure is what the caller gets.
	m.ensureSetExists(ctx, session, setName, family)

	if cmd.TolerateExisting() {
		session.SetTolerateDuplicates(true)
	}

	err = session.ResolveSetName(setName)
	if err != nil {
		return m.fail(ctx, serviceError(ErrResolve, cmd, setName, address, session, err))
	}
	elementType, err := session.ResolveCommandType(cmd)
	if err != nil {
		return m.fail(ctx, serviceError(ErrResolve, cmd, setName, address, session, err))
	}
	err = session.ParseElement(elementType, address)
	if err != nil {
		return m.fail(ctx, serviceError(ErrResolve, cmd, setName, address, session, err))
	}
	err = session.Execute(cmd)
	if err != nil {
		return m.fail(ctx, serviceError(ErrExecute, cmd, setName, address, session, err))
	}
	return nil
}

// ensureSetExists reports whether setName exists after the call.
func (m *Manager) ensureSetExists(ctx context.Context, session Session, setName string, family Family) bool {
	if session.Probe(setName) {
		return true
	}
	m.logger.InfoContext(ctx, fmt.Sprintf("creating set %s (%s family %s)", setName, TypeHashIP, family))
	err := session.Create(setName, ElementType{Name: TypeHashIP, Family: family})
	if err != nil {
		m.logger.ErrorContext(ctx, &CommandError{
			Kind:    ErrSetCreate,
			Set:     setName,
			Message: fmt.Sprintf("error while attempting to create set %s: %s", setName, diagnostic(session, err)),
			Cause:   err,
		})
		return false
	}
	return true
}

func (m *Manager) fail(ctx context.Context, err *CommandError) error {
	m.logger.ErrorContext(ctx, err)
	return err
}

func serviceError(kind error, cmd Command, setName string, address string, session Session, cause error) *CommandError {
	return &CommandError{
		Kind:    kind,
		Command: cmd,
		Set:     setName,
		Address: address,
		Message: diagnostic(session, cause),
		Cause:   cause,
	}
}

func diagnostic(session Session, err error) string {
	msg := session.LastErrorMessage()
	if msg == "" && err != nil {
		msg = err.Error()
	}
	return msg
}
