package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

type cartStore interface {
	ListCart(ctx context.Context, userID string) ([]model.CartItem, error)
	AddCartItem(ctx context.Context, item model.CartItem) (*model.CartItem, error)
	GetCartItem(ctx context.Context, id string) (*model.CartItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (*model.CartItem, error)
	DeleteCartItem(ctx context.Context, id string) error
	ClearCart(ctx context.Context, userID string) error
}

type userStore interface {
	UpsertUser(ctx context.Context, u model.User) (*model.User, error)
}

type conversationStore interface {
	SaveConversation(ctx context.Context, c *model.Conversation) error
	ListConversations(ctx context.Context, userID string, limit int) ([]model.Conversation, error)
}

func line(userID string, productID int64, qty int) model.CartItem {
	return model.CartItem{
		UserID:       userID,
		ProductID:    productID,
		ProductName:  "Mahsulot",
		ProductPrice: "150000",
		Quantity:     qty,
	}
}

func testCartContract(t *testing.T, s cartStore) {
	ctx := context.Background()

	t.Run("merge on add", func(t *testing.T) {
		first, err := s.AddCartItem(ctx, line("u-merge", 101, 2))
		require.NoError(t, err)
		assert.Equal(t, 2, first.Quantity)

		second, err := s.AddCartItem(ctx, line("u-merge", 101, 3))
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 5, second.Quantity)

		items, err := s.ListCart(ctx, "u-merge")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 5, items[0].Quantity)
	})

	t.Run("same product for different users stays separate", func(t *testing.T) {
		_, err := s.AddCartItem(ctx, line("u-a", 7, 1))
		require.NoError(t, err)
		_, err = s.AddCartItem(ctx, line("u-b", 7, 1))
		require.NoError(t, err)

		a, err := s.ListCart(ctx, "u-a")
		require.NoError(t, err)
		assert.Len(t, a, 1)
	})

	t.Run("snapshot is kept from the first add", func(t *testing.T) {
		first := line("u-snap", 9, 1)
		first.ProductPrice = "100"
		_, err := s.AddCartItem(ctx, first)
		require.NoError(t, err)

		again := line("u-snap", 9, 1)
		again.ProductPrice = "200"
		got, err := s.AddCartItem(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, "100", got.ProductPrice)
	})

	t.Run("update, get and delete", func(t *testing.T) {
		added, err := s.AddCartItem(ctx, line("u-upd", 5, 1))
		require.NoError(t, err)

		updated, err := s.UpdateQuantity(ctx, added.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Quantity)

		got, err := s.GetCartItem(ctx, added.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, got.Quantity)

		require.NoError(t, s.DeleteCartItem(ctx, added.ID))
		_, err = s.GetCartItem(ctx, added.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		assert.NoError(t, s.DeleteCartItem(ctx, added.ID))
	})

	t.Run("unknown line", func(t *testing.T) {
		_, err := s.UpdateQuantity(ctx, "018f3a9e-0000-7000-8000-000000000000", 2)
		assert.ErrorIs(t, err, model.ErrNotFound)

		_, err = s.GetCartItem(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("clear", func(t *testing.T) {
		_, err := s.AddCartItem(ctx, line("u-clear", 1, 1))
		require.NoError(t, err)
		_, err = s.AddCartItem(ctx, line("u-clear", 2, 1))
		require.NoError(t, err)
		_, err = s.AddCartItem(ctx, line("u-keep", 1, 1))
		require.NoError(t, err)

		require.NoError(t, s.ClearCart(ctx, "u-clear"))

		items, err := s.ListCart(ctx, "u-clear")
		require.NoError(t, err)
		assert.Empty(t, items)

		kept, err := s.ListCart(ctx, "u-keep")
		require.NoError(t, err)
		assert.Len(t, kept, 1)
	})

	t.Run("list keeps insertion order", func(t *testing.T) {
		for _, id := range []int64{30, 10, 20} {
			_, err := s.AddCartItem(ctx, line("u-order", id, 1))
			require.NoError(t, err)
			time.Sleep(2 * time.Millisecond)
		}
		items, err := s.ListCart(ctx, "u-order")
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, []int64{30, 10, 20}, []int64{items[0].ProductID, items[1].ProductID, items[2].ProductID})
	})
}

func testUserContract(t *testing.T, s userStore) {
	ctx := context.Background()

	created, err := s.UpsertUser(ctx, model.User{TelegramID: "555", FirstName: "Aziz"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	again, err := s.UpsertUser(ctx, model.User{TelegramID: "555", FirstName: "Aziz", Username: "aziz_uz"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "aziz_uz", again.Username)
}

func testConversationContract(t *testing.T, s conversationStore) {
	ctx := context.Background()

	for i, msg := range []string{"birinchi", "ikkinchi", "uchinchi"} {
		c := &model.Conversation{
			UserID:      "777",
			UserMessage: msg,
			BotResponse: "javob",
			CreatedAt:   time.Date(2024, 1, 1, 12, i, 0, 0, time.UTC),
		}
		if i == 1 {
			c.RecommendedProducts = []int64{101, 205}
		}
		require.NoError(t, s.SaveConversation(ctx, c))
		assert.NotEmpty(t, c.ID)
	}
	require.NoError(t, s.SaveConversation(ctx, &model.Conversation{UserID: "other", UserMessage: "x", BotResponse: "y"}))

	got, err := s.ListConversations(ctx, "777", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "uchinchi", got[0].UserMessage)
	assert.Equal(t, "ikkinchi", got[1].UserMessage)
	assert.Equal(t, []int64{101, 205}, got[1].RecommendedProducts)
	assert.Equal(t, []int64{}, got[0].RecommendedProducts)
}
