// File: internal/services/doubts/store_adapter_test.go
package doubts

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/athenaai/go-tutor/internal/domain"
	doubtrepo "github.com/athenaai/go-tutor/internal/repository/doubt"
	messagerepo "github.com/athenaai/go-tutor/internal/repository/message"
)

func newTestAdapter(t *testing.T) *StoreAdapter {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Doubt{}, &domain.Message{}))

	adapter, err := NewStoreAdapter(doubtrepo.NewDoubtRepository(db), messagerepo.NewMessageRepository(db), nil)
	require.NoError(t, err)
	return adapter
}

func TestStoreAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	id, err := adapter.CreateDoubt(ctx, 1, "Kinematics Basics", "Physics", "What is velocity?")
	require.NoError(t, err)
	require.NotZero(t, id)

	_, err = adapter.AppendMessage(ctx, id, domain.MessageTypeUser, "What is velocity?", "")
	require.NoError(t, err)
	_, err = adapter.AppendMessage(ctx, id, domain.MessageTypeAssistant, "Velocity is speed with direction.", "data:image/png;base64,aGk=")
	require.NoError(t, err)

	record, err := adapter.GetDoubt(ctx, 1, id)
	require.NoError(t, err)
	assert.Equal(t, "Kinematics Basics", record.Title)
	assert.Equal(t, "Physics", record.Subject)
	require.Len(t, record.Messages, 2)
	assert.Equal(t, domain.MessageTypeUser, record.Messages[0].Role)
	assert.Equal(t, domain.MessageTypeAssistant, record.Messages[1].Role)
	assert.Equal(t, "data:image/png;base64,aGk=", record.Messages[1].ImageURL)
}

func TestStoreAdapterListOrdersByUpdatedAt(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	first, err := adapter.CreateDoubt(ctx, 1, "First", "Physics", "p")
	require.NoError(t, err)
	second, err := adapter.CreateDoubt(ctx, 1, "Second", "Chemistry", "p")
	require.NoError(t, err)

	// Appending touches the doubt's updated_at, moving it to the front.
	_, err = adapter.AppendMessage(ctx, first, domain.MessageTypeUser, "bump", "")
	require.NoError(t, err)

	summaries, err := adapter.ListDoubts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, first, summaries[0].ID)
	assert.Equal(t, second, summaries[1].ID)
}

func TestStoreAdapterUpdateDoubt(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	id, err := adapter.CreateDoubt(ctx, 1, "Physics Chat", "Physics", "old preview")
	require.NoError(t, err)

	require.NoError(t, adapter.UpdateDoubt(ctx, 1, id, "Newton's Laws", "new preview"))

	record, err := adapter.GetDoubt(ctx, 1, id)
	require.NoError(t, err)
	assert.Equal(t, "Newton's Laws", record.Title)
	assert.Equal(t, "new preview", record.Preview)

	// Another user cannot rename the doubt.
	err = adapter.UpdateDoubt(ctx, 2, id, "hijacked", "p")
	assert.ErrorIs(t, err, doubtrepo.ErrUnauthorizedAccess)
}

func TestStoreAdapterDeleteCascades(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	id, err := adapter.CreateDoubt(ctx, 1, "To Delete", "Physics", "p")
	require.NoError(t, err)
	_, err = adapter.AppendMessage(ctx, id, domain.MessageTypeUser, "q", "")
	require.NoError(t, err)
	_, err = adapter.AppendMessage(ctx, id, domain.MessageTypeAssistant, "a", "")
	require.NoError(t, err)

	require.NoError(t, adapter.DeleteDoubt(ctx, 1, id))

	_, err = adapter.GetDoubt(ctx, 1, id)
	assert.ErrorIs(t, err, doubtrepo.ErrDoubtNotFound)

	count, err := adapter.messages.CountByDoubtID(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, count, "deleting a doubt must remove its messages")
}

func TestStoreAdapterEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	adapter := newTestAdapter(t)

	id, err := adapter.CreateDoubt(ctx, 1, "Mine", "Physics", "p")
	require.NoError(t, err)

	_, err = adapter.GetDoubt(ctx, 2, id)
	require.Error(t, err)

	err = adapter.DeleteDoubt(ctx, 2, id)
	assert.ErrorIs(t, err, doubtrepo.ErrUnauthorizedAccess)

	// Owner view is untouched.
	summaries, err := adapter.ListDoubts(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, summaries)
	summaries, err = adapter.ListDoubts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}
