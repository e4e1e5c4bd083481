package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := New("terminal.Draw", KindTerminal, "write failed: %d bytes", 12)
	assert.Equal(t, "terminal.Draw [terminal]: write failed: 12 bytes", err.Error())

	bare := &Error{Op: "engine.Run", Kind: KindRender}
	assert.Equal(t, "engine.Run [render]", bare.Error())
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "op", KindConfig))
}

func TestIsKindThroughChain(t *testing.T) {
	base := errors.New("broken pipe")
	err := fmt.Errorf("render frame: %w", Wrap(base, "terminal.Draw", KindTerminal))

	assert.True(t, IsKind(err, KindTerminal))
	assert.False(t, IsKind(err, KindConfig))
	assert.ErrorIs(t, err, base)
	assert.False(t, IsKind(base, KindTerminal))
}

func TestInvariantPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		e, ok := r.(*Error)
		require.True(t, ok)
		assert.Equal(t, KindInvariant, e.Kind)
		assert.Equal(t, "event.Registry.Add", e.Op)
	}()
	Invariant("event.Registry.Add", "duplicate %s", "ctrl_c")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "unknown", Kind(99).String())
	assert.Equal(t, "panic", KindPanic.String())
}
