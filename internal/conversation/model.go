// File: internal/conversation/model.go
package conversation

import (
	"time"

	"github.com/iphenelist/vendor-backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationStatus string

const (
	StatusActive ConversationStatus = "Active"
	StatusClosed ConversationStatus = "Closed"
)

// Conversation is a buyer/seller thread anchored to a listing. Only storage
// lives here; delivery and notification are out of scope.
type Conversation struct {
	common.BaseModel
	BuyerID   uuid.UUID          `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SellerID  uuid.UUID          `json:"seller_id" gorm:"type:uuid;not null;index"`
	ListingID uuid.UUID          `json:"listing_id" gorm:"type:uuid;not null;index"`
	Status    ConversationStatus `json:"status" gorm:"type:varchar(20);not null;default:'Active'"`
	Messages  []Message          `json:"messages,omitempty" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE;"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Message is one entry in a conversation.
type Message struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ConversationID uuid.UUID `json:"conversation_id" gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID `json:"sender_id" gorm:"type:uuid;not null"`
	Body           string    `json:"body" gorm:"type:text;not null"`
	IsRead         bool      `json:"is_read" gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
