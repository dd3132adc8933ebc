// File: internal/conversation/repository.go
package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the storage surface for conversations and messages.
type Repository interface {
	CreateConversation(ctx context.Context, conv *Conversation) error
	FindConversation(ctx context.Context, id uuid.UUID) (*Conversation, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Conversation, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ConversationStatus) error
	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]Message, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM conversation repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateConversation(ctx context.Context, conv *Conversation) error {
	if conv.Status == "" {
		conv.Status = StatusActive
	}
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

func (r *gormRepository) FindConversation(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	var conv Conversation
	err := r.db.WithContext(ctx).First(&conv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Conversation not found.")
		}
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return &conv, nil
}

func (r *gormRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Conversation, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Conversation{}).
		Where("buyer_id = ? OR seller_id = ?", userID, userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	var convs []Conversation
	err := base.
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&convs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, total, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status ConversationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&Conversation{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update conversation status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Conversation not found.")
	}
	return nil
}

func (r *gormRepository) CreateMessage(ctx context.Context, msg *Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}
		// Bump the thread so ListForUser surfaces it first.
		err := tx.Model(&Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", tx.NowFunc()).Error
		if err != nil {
			return fmt.Errorf("failed to touch conversation: %w", err)
		}
		return nil
	})
}

func (r *gormRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]Message, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&Message{}).
		Where("conversation_id = ?", conversationID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	var msgs []Message
	err := base.
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, total, nil
}
