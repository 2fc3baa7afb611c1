package registry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreate(t *testing.T) {
	r := New()
	a := r.GetOrCreate("PointBuilder")
	b := r.GetOrCreate("PointBuilder")
	require.Same(t, a, b)
	require.Equal(t, 1, r.Len())

	a.SetPackage("geo")
	require.Equal(t, "geo", r.GetOrCreate("PointBuilder").Package())
}

func TestLookupDoesNotCreate(t *testing.T) {
	r := New()
	_, ok := r.Lookup("Missing")
	require.False(t, ok)
	require.Zero(t, r.Len())
}

func TestAllIsSortedSnapshot(t *testing.T) {
	r := New()
	r.GetOrCreate("ZooBuilder")
	r.GetOrCreate("AppleBuilder")
	r.GetOrCreate("MangoBuilder")

	all := r.All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Key()
	}
	require.Equal(t, []string{"AppleBuilder", "MangoBuilder", "ZooBuilder"}, names)

	all[0] = nil
	require.NotNil(t, r.All()[0])
}

func TestNamesSortByRegisteredName(t *testing.T) {
	r := New()
	ui := r.GetOrCreate("ui.PointBuilder")
	geo := r.GetOrCreate("geo.PointBuilder")
	ui.SetKey("PointBuilder")
	geo.SetKey("PointBuilder")

	require.Equal(t, []string{"geo.PointBuilder", "ui.PointBuilder"}, r.Names())
	require.Same(t, geo, r.All()[0])
}
