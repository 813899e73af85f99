package practice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devscan/devscan/internal/component"
)

type stub struct {
	id string
}

func (s *stub) Metadata() Metadata { return Metadata{ID: s.id} }
func (s *stub) IsApplicable(*component.Component) bool { return true }
func (s *stub) Evaluate(context.Context, *Context) (Result, error) {
	return ResultPracticing, nil
}

func TestCatalog_RegisterAndGet(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.Register(&stub{id: "a"}))

	p, ok := catalog.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "a", p.Metadata().ID)

	_, ok = catalog.Get("missing")
	assert.False(t, ok)
}

func TestCatalog_RejectsDuplicates(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.Register(&stub{id: "a"}))

	err := catalog.Register(&stub{id: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestCatalog_RejectsEmptyID(t *testing.T) {
	catalog := NewCatalog()
	assert.Error(t, catalog.Register(&stub{}))
}

func TestCatalog_ListPreservesRegistrationOrder(t *testing.T) {
	catalog := NewCatalog()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, catalog.Register(&stub{id: id}))
	}

	var got []string
	for _, p := range catalog.List() {
		got = append(got, p.Metadata().ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
	assert.Equal(t, 3, catalog.Len())
}

func TestCatalog_Index(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.Register(&stub{id: "first"}))
	require.NoError(t, catalog.Register(&stub{id: "second"}))

	assert.Equal(t, 0, catalog.Index("first"))
	assert.Equal(t, 1, catalog.Index("second"))
	assert.Equal(t, 2, catalog.Index("unregistered"), "unknown IDs sort last")
}
