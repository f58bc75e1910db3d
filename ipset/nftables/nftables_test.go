package nftables

import (
	"testing"

	"github.com/yaotthaha/ipsetd/ipset"

	"github.com/stretchr/testify/require"
)

func TestParseTableFamily(t *testing.T) {
	f, err := ParseTableFamily("")
	require.NoError(t, err)
	require.Equal(t, TableFamilyInet, f)
	f, err = ParseTableFamily("ip6")
	require.NoError(t, err)
	require.Equal(t, TableFamilyIP6, f)
	_, err = ParseTableFamily("bridge")
	require.Error(t, err)
}

func TestTableFamilyAccepts(t *testing.T) {
	require.True(t, TableFamilyInet.accepts(ipset.FamilyInet4))
	require.True(t, TableFamilyInet.accepts(ipset.FamilyInet6))
	require.True(t, TableFamilyIP.accepts(ipset.FamilyInet4))
	require.False(t, TableFamilyIP.accepts(ipset.FamilyInet6))
	require.False(t, TableFamilyIP6.accepts(ipset.FamilyInet4))
}

func TestKeyTypes(t *testing.T) {
	f, ok := familyOfKeyType("ipv6_addr")
	require.True(t, ok)
	require.Equal(t, ipset.FamilyInet6, f)
	_, ok = familyOfKeyType("inet_service")
	require.False(t, ok)
}

func TestParseElement(t *testing.T) {
	v4 := ipset.ElementType{Name: ipset.TypeHashIP, Family: ipset.FamilyInet4}
	addr, err := parseElement(v4, "198.51.100.4")
	require.NoError(t, err)
	require.Equal(t, []byte{198, 51, 100, 4}, addr.AsSlice())
	_, err = parseElement(v4, "2001:db8::1")
	require.EqualError(t, err, "Error: Could not parse 2001:db8::1: ipv4_addr expected")
}
