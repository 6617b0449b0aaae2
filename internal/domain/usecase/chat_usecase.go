package usecase

import (
	"context"
	"fmt"

	"floatchat/internal/chat"
	"floatchat/internal/domain/entity"
)

type ChatHistoryRepo interface {
	SaveRecord(ctx context.Context, record *entity.ChatRecord) error
	History(ctx context.Context, sessionID, keyword string, limit int) ([]entity.ChatRecord, error)
	Clear(ctx context.Context, sessionID string) (int64, error)
}

type ResponseSelector interface {
	Select(queryText string, population []entity.Float, criteriaContext entity.Criteria) (*chat.Response, error)
	Welcome() string
}

// ChatUseCase runs one chat turn: sanitize, classify, render against the
// session's population, persist the exchange.
type ChatUseCase struct {
	Sessions *SessionUseCase
	Selector ResponseSelector
	History  ChatHistoryRepo
}

func NewChatUseCase(sessions *SessionUseCase, selector ResponseSelector, history ChatHistoryRepo) *ChatUseCase {
	return &ChatUseCase{
		Sessions: sessions,
		Selector: selector,
		History:  history,
	}
}

func (u *ChatUseCase) Respond(ctx context.Context, sessionID, message string, criteriaContext entity.Criteria) (*chat.Response, error) {
	message = chat.Sanitize(message)

	population, err := u.Sessions.Population(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	response, err := u.Selector.Select(message, population, criteriaContext)
	if err != nil {
		return nil, err
	}

	record := &entity.ChatRecord{
		SessionID:   sessionID,
		UserMessage: message,
		BotResponse: response.Text,
		TemplateID:  response.TemplateID,
	}
	if err := u.History.SaveRecord(ctx, record); err != nil {
		return nil, fmt.Errorf("save chat record: %w", err)
	}

	return response, nil
}

func (u *ChatUseCase) HistoryOf(ctx context.Context, sessionID, keyword string, limit int) ([]entity.ChatRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}
	return u.History.History(ctx, sessionID, keyword, limit)
}

func (u *ChatUseCase) Clear(ctx context.Context, sessionID string) (int64, error) {
	return u.History.Clear(ctx, sessionID)
}

func (u *ChatUseCase) Welcome() string { return u.Selector.Welcome() }
