package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCreateAndLookup(t *testing.T) {
	m := NewManager(newTestDevice())

	p := m.Create("basic.vert", StageVertex, WithSource("void main() {}"))
	require.NotNil(t, p)
	assert.Same(t, p, m.Program("basic.vert"))
	assert.Nil(t, m.Program("unknown"))
}

func TestManagerSharesRegistry(t *testing.T) {
	m := NewManager(newTestDevice())

	p1 := m.Create("a.vert", StageVertex, WithSource("void main() {}")).(*program)
	p2 := m.Create("b.frag", StageFragment, WithSource("void main() {}")).(*program)
	assert.Same(t, m.Registry(), p1.registry)
	assert.Same(t, m.Registry(), p2.registry)
}

func TestManagerRemove(t *testing.T) {
	m := NewManager(newTestDevice())

	m.Create("basic.vert", StageVertex, WithSource("void main() {}"))
	m.Remove("basic.vert")
	assert.Nil(t, m.Program("basic.vert"))

	// Unknown names are a no-op.
	m.Remove("never-registered")
}

func TestManagerCompileAllCollectsErrors(t *testing.T) {
	m := NewManager(newTestDevice(), WithCompileWorkers(2))

	bad := "layout( ogre_set9, ogre_t0 ) uniform sampler2D tex;\nvoid main() {}\n"
	m.Create("bad1.frag", StageFragment, WithSource(bad))
	m.Create("bad2.frag", StageFragment, WithSource(bad))

	err := m.CompileAll(true)
	require.Error(t, err)
	var compileErr *CompileError
	assert.ErrorAs(t, err, &compileErr)

	assert.True(t, m.Program("bad1.frag").CompileErrored())
	assert.True(t, m.Program("bad2.frag").CompileErrored())
}

func TestManagerCompileAllUnchecked(t *testing.T) {
	m := NewManager(newTestDevice())

	bad := "layout( ogre_set9, ogre_t0 ) uniform sampler2D tex;\nvoid main() {}\n"
	m.Create("bad.frag", StageFragment, WithSource(bad))

	err := m.CompileAll(false)
	assert.NoError(t, err)
	assert.True(t, m.Program("bad.frag").CompileErrored())
}

func TestManagerRelease(t *testing.T) {
	m := NewManager(newTestDevice())

	p := m.Create("basic.vert", StageVertex, WithSource("void main() {}")).(*program)
	p.compiled = true

	m.Release()
	assert.False(t, p.Compiled())
	assert.NotNil(t, m.Program("basic.vert"))
}

func TestNewManagerPanicsWithoutDevice(t *testing.T) {
	assert.Panics(t, func() {
		NewManager(nil)
	})
}
