package window

import (
	"errors"
	"testing"

	"github.com/gridcal/gridcal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceStability(t *testing.T) {
	policy := Policy{StartToday: true}

	a := Namespace([]string{"calendar.home", "calendar.work"}, policy)
	b := Namespace([]string{"calendar.work", "calendar.home"}, policy)
	assert.Equal(t, a, b, "namespace must not depend on configuration order")

	c := Namespace([]string{"calendar.work"}, policy)
	assert.NotEqual(t, a, c, "different source sets must not share a namespace")

	d := Namespace([]string{"calendar.home", "calendar.work"}, Policy{FirstDay: 1})
	assert.NotEqual(t, a, d, "different policies must not share a namespace")
}

func TestOffsetRoundTrip(t *testing.T) {
	store := storage.NewStubStore()
	s := NewOffsetStore(store, "test.ns")

	assert.Equal(t, 0, s.LoadOffset(), "missing offset defaults to 0")

	require.NoError(t, s.SaveOffset(-3))
	assert.Equal(t, -3, s.LoadOffset())

	require.NoError(t, s.SaveOffset(12))
	assert.Equal(t, 12, s.LoadOffset())
}

func TestLoadOffsetDefaults(t *testing.T) {
	t.Run("unparsable value", func(t *testing.T) {
		store := storage.NewStubStore()
		require.NoError(t, store.Set("test.ns.weekOffset", "banana"))

		s := NewOffsetStore(store, "test.ns")
		assert.Equal(t, 0, s.LoadOffset())
	})

	t.Run("store failure", func(t *testing.T) {
		store := storage.NewStubStore()
		store.GetErr = errors.New("disk gone")

		s := NewOffsetStore(store, "test.ns")
		assert.Equal(t, 0, s.LoadOffset())
	})
}

func TestVisibility(t *testing.T) {
	store := storage.NewStubStore()
	s := NewOffsetStore(store, "test.ns")

	assert.True(t, s.IsVisible("calendar.home"), "unknown sources default to visible")

	require.NoError(t, s.SetVisible("calendar.home", false))
	assert.False(t, s.IsVisible("calendar.home"))
	assert.True(t, s.IsVisible("calendar.work"))

	require.NoError(t, s.SetVisible("calendar.home", true))
	assert.True(t, s.IsVisible("calendar.home"))
}

func TestScrollTop(t *testing.T) {
	store := storage.NewStubStore()
	s := NewOffsetStore(store, "test.ns")

	assert.Equal(t, 648.0, s.LoadScrollTop(648))

	require.NoError(t, s.SaveScrollTop(1024.5))
	assert.Equal(t, 1024.5, s.LoadScrollTop(648))
}
