package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floatchat/internal/chat"
	"floatchat/internal/config"
	"floatchat/internal/domain/entity"
	"floatchat/internal/simulation"
)

func testChatUseCase(t *testing.T) (*ChatUseCase, *fakeHistoryRepo, string) {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	gen := simulation.NewGenerator(cfg.Simulation)
	sessions := NewSessionUseCase(newFakeMetaRepo(), gen)
	meta, err := sessions.Create(context.Background(), 50, int64Ptr(42))
	require.NoError(t, err)

	selector, err := chat.NewSelector(cfg.Chat)
	require.NoError(t, err)

	history := &fakeHistoryRepo{}
	return NewChatUseCase(sessions, selector, history), history, meta.SessionID
}

func TestChatRespondPersistsExchange(t *testing.T) {
	ctx := context.Background()
	u, _, sessionID := testChatUseCase(t)

	resp, err := u.Respond(ctx, sessionID, "show me temperature data", entity.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, "temperature", resp.TemplateID)
	assert.NotEmpty(t, resp.Text)

	records, err := u.HistoryOf(ctx, sessionID, "", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "show me temperature data", records[0].UserMessage)
	assert.Equal(t, resp.Text, records[0].BotResponse)
	assert.Equal(t, "temperature", records[0].TemplateID)
}

func TestChatRespondSanitizesInput(t *testing.T) {
	ctx := context.Background()
	u, _, sessionID := testChatUseCase(t)

	resp, err := u.Respond(ctx, sessionID, "salinity\x00\x1flevels", entity.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, "salinity", resp.TemplateID)

	records, err := u.HistoryOf(ctx, sessionID, "", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotContains(t, records[0].UserMessage, "\x00", "control characters never reach storage")
}

func TestChatRespondUnknownSession(t *testing.T) {
	u, _, _ := testChatUseCase(t)

	_, err := u.Respond(context.Background(), "missing", "temperature", entity.Criteria{})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestChatHistoryKeywordAndClear(t *testing.T) {
	ctx := context.Background()
	u, _, sessionID := testChatUseCase(t)

	for _, msg := range []string{"temperature in the arabian sea", "salinity levels", "where are the floats"} {
		_, err := u.Respond(ctx, sessionID, msg, entity.Criteria{})
		require.NoError(t, err)
	}

	matched, err := u.HistoryOf(ctx, sessionID, "salinity", 0)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "salinity levels", matched[0].UserMessage)

	removed, err := u.Clear(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	empty, err := u.HistoryOf(ctx, sessionID, "", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestChatWelcome(t *testing.T) {
	u, _, _ := testChatUseCase(t)
	assert.NotEmpty(t, u.Welcome())
}
