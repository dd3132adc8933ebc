// File: internal/conversation/repository_test.go
package conversation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE conversations (
		id TEXT PRIMARY KEY,
		buyer_id TEXT NOT NULL,
		seller_id TEXT NOT NULL,
		listing_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Active',
		created_at DATETIME,
		updated_at DATETIME
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE messages (
		id TEXT PRIMARY KEY,
		conversation_id TEXT NOT NULL,
		sender_id TEXT NOT NULL,
		body TEXT NOT NULL,
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	)`).Error)
	return db
}

func newThread(t *testing.T, repo Repository, buyer, seller uuid.UUID) *Conversation {
	t.Helper()
	conv := &Conversation{BuyerID: buyer, SellerID: seller, ListingID: uuid.New()}
	require.NoError(t, repo.CreateConversation(context.Background(), conv))
	return conv
}

func TestCreateConversation_DefaultsToActive(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	conv := newThread(t, repo, uuid.New(), uuid.New())
	assert.Equal(t, StatusActive, conv.Status)

	found, err := repo.FindConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.BuyerID, found.BuyerID)

	require.NoError(t, repo.UpdateStatus(ctx, conv.ID, StatusClosed))
	found, err = repo.FindConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, found.Status)
}

func TestListForUser_SeesBothSides(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()

	asBuyer := newThread(t, repo, alice, bob)
	asSeller := newThread(t, repo, carol, alice)
	newThread(t, repo, bob, carol)

	convs, total, err := repo.ListForUser(ctx, alice, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	ids := []uuid.UUID{convs[0].ID, convs[1].ID}
	assert.Contains(t, ids, asBuyer.ID)
	assert.Contains(t, ids, asSeller.ID)
}

func TestCreateMessage_StoresAndOrders(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	buyer, seller := uuid.New(), uuid.New()
	conv := newThread(t, repo, buyer, seller)

	require.NoError(t, repo.CreateMessage(ctx, &Message{
		ConversationID: conv.ID, SenderID: buyer, Body: "Is this still available?",
	}))
	require.NoError(t, repo.CreateMessage(ctx, &Message{
		ConversationID: conv.ID, SenderID: seller, Body: "Yes, it is.", IsRead: true,
	}))

	msgs, total, err := repo.ListMessages(ctx, conv.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Is this still available?", msgs[0].Body)
	assert.False(t, msgs[0].IsRead)
	assert.True(t, msgs[1].IsRead)
}

func TestCreateMessage_BumpsThreadOrdering(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	older := newThread(t, repo, alice, bob)
	newThread(t, repo, alice, bob)

	// A new message in the older thread surfaces it first.
	require.NoError(t, repo.CreateMessage(ctx, &Message{
		ConversationID: older.ID, SenderID: bob, Body: "Still interested?",
	}))

	convs, _, err := repo.ListForUser(ctx, alice, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, older.ID, convs[0].ID)
}
