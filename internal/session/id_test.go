// File: internal/session/id_test.go
package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athenaai/go-tutor/internal/session"
)

func TestConversationIDStates(t *testing.T) {
	def := session.DefaultID()
	assert.Equal(t, session.KindDefault, def.Kind())
	assert.True(t, def.IsEphemeral())
	_, ok := def.Persisted()
	assert.False(t, ok)

	local := session.NewLocalID()
	assert.Equal(t, session.KindLocal, local.Kind())
	assert.True(t, local.IsEphemeral())
	_, ok = local.Persisted()
	assert.False(t, ok)

	persisted := session.PersistedID(42)
	assert.Equal(t, session.KindPersisted, persisted.Kind())
	assert.False(t, persisted.IsEphemeral())
	record, ok := persisted.Persisted()
	require.True(t, ok)
	assert.Equal(t, uint(42), record)
}

func TestParseIDRoundTrip(t *testing.T) {
	ids := []session.ConversationID{
		session.DefaultID(),
		session.NewLocalID(),
		session.PersistedID(1),
		session.PersistedID(98765),
	}
	for _, id := range ids {
		parsed, ok := session.ParseID(id.String())
		require.True(t, ok, "ParseID(%q)", id.String())
		assert.Equal(t, id, parsed)
	}
}

func TestParseIDRejectsInvalid(t *testing.T) {
	for _, s := range []string{"", "0", "-5", "abc", "local-", "12.5"} {
		_, ok := session.ParseID(s)
		assert.False(t, ok, "ParseID(%q) should fail", s)
	}
}
