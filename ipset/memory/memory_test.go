package memory

import (
	"context"
	"net/netip"
	"testing"

	"github.com/yaotthaha/ipsetd/ipset"

	"github.com/stretchr/testify/require"
)

func TestBlocklistScenario(t *testing.T) {
	ctx := context.Background()
	svc := NewService()
	m := ipset.NewManager(svc, nil)
	addr := netip.MustParseAddr("203.0.113.7")

	require.False(t, svc.Exists("blocklist"))
	require.NoError(t, m.AddAddressToSet(ctx, "blocklist", "203.0.113.7"))
	require.True(t, svc.Exists("blocklist"))
	typ, ok := svc.Type("blocklist")
	require.True(t, ok)
	require.Equal(t, ipset.ElementType{Name: ipset.TypeHashIP, Family: ipset.FamilyInet4}, typ)
	require.Equal(t, []netip.Addr{addr}, svc.Members("blocklist"))

	// adding again is not an error and leaves a single member
	require.NoError(t, m.AddAddressToSet(ctx, "blocklist", "203.0.113.7"))
	require.Equal(t, []netip.Addr{addr}, svc.Members("blocklist"))

	require.NoError(t, m.RemoveAddressFromSet(ctx, "blocklist", "203.0.113.7"))
	require.Empty(t, svc.Members("blocklist"))

	err := m.RemoveAddressFromSet(ctx, "blocklist", "203.0.113.7")
	require.ErrorIs(t, err, ipset.ErrExecute)
	require.Contains(t, err.Error(), "it's not added")

	opened, closed := svc.Sessions()
	require.Equal(t, 4, opened)
	require.Equal(t, opened, closed)
}

func TestInvalidAddressOpensNoSession(t *testing.T) {
	svc := NewService()
	m := ipset.NewManager(svc, nil)
	err := m.AddAddressToSet(context.Background(), "blocklist", "999.999.999.999")
	require.ErrorIs(t, err, ipset.ErrInvalidAddress)
	require.False(t, svc.Exists("blocklist"))
	opened, _ := svc.Sessions()
	require.Zero(t, opened)
}

func TestDeleteNonMember(t *testing.T) {
	ctx := context.Background()
	svc := NewService()
	m := ipset.NewManager(svc, nil)

	// deleting from a missing set creates it, then fails on the element
	err := m.RemoveAddressFromSet(ctx, "allowlist", "192.0.2.1")
	require.ErrorIs(t, err, ipset.ErrExecute)
	require.True(t, svc.Exists("allowlist"))

	require.NoError(t, m.AddAddressToSet(ctx, "allowlist", "192.0.2.1"))
	require.NoError(t, m.RemoveAddressFromSet(ctx, "allowlist", "192.0.2.1"))
}

func TestFamilyMismatch(t *testing.T) {
	ctx := context.Background()
	svc := NewService()
	m := ipset.NewManager(svc, nil)

	require.NoError(t, m.AddAddressToSet(ctx, "mixed", "192.0.2.1"))
	err := m.AddAddressToSet(ctx, "mixed", "2001:db8::1")
	require.ErrorIs(t, err, ipset.ErrResolve)
	require.Contains(t, err.Error(), "resolving to IPv4 address failed")

	require.NoError(t, m.AddAddressToSet(ctx, "v6", "2001:db8::1"))
	require.NoError(t, m.AddAddressToSet(ctx, "v6", "2001:db8::2"))
	require.Equal(t, []netip.Addr{
		netip.MustParseAddr("2001:db8::1"),
		netip.MustParseAddr("2001:db8::2"),
	}, svc.Members("v6"))
}

func TestSessionRules(t *testing.T) {
	svc := NewService()
	_, err := svc.OpenSession()
	require.Error(t, err)
	require.NoError(t, svc.LoadTypes())

	s, err := svc.OpenSession()
	require.NoError(t, err)
	require.False(t, s.Probe("x"))
	require.NoError(t, s.Create("x", ipset.ElementType{Name: ipset.TypeHashIP, Family: ipset.FamilyInet4}))
	require.Error(t, s.Create("x", ipset.ElementType{Name: ipset.TypeHashIP, Family: ipset.FamilyInet4}))
	require.Equal(t, "Set cannot be created: set with the same name already exists", s.LastErrorMessage())
	require.Error(t, s.Create("y", ipset.ElementType{Name: "hash:net", Family: ipset.FamilyInet4}))

	require.NoError(t, s.ResolveSetName("x"))
	typ, err := s.ResolveCommandType(ipset.CommandAdd)
	require.NoError(t, err)
	require.NoError(t, s.ParseElement(typ, "192.0.2.1"))
	require.NoError(t, s.Execute(ipset.CommandAdd))
	require.Error(t, s.Execute(ipset.CommandAdd))
	require.Equal(t, "Element cannot be added to the set: it's already added", s.LastErrorMessage())
	s.SetTolerateDuplicates(true)
	require.NoError(t, s.Execute(ipset.CommandAdd))

	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Close(), ErrSessionClosed)
	require.ErrorIs(t, s.Execute(ipset.CommandAdd), ErrSessionClosed)
}
