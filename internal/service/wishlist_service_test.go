package service_test

import (
	"context"
	"testing"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWishlistSvc() (service.WishlistService, *stubWishlistRepo, *stubClientRepo, *stubNotificationRepo, *stubUserRepo, *recordingQueue) {
	wishRepo := newStubWishlistRepo()
	clientRepo := newStubClientRepo()
	notifRepo := &stubNotificationRepo{}
	userRepo := newStubUserRepo()
	queue := &recordingQueue{}
	notifier := service.NewNotificationService(notifRepo, userRepo, queue)
	svc := service.NewWishlistService(wishRepo, clientRepo, notifier)
	return svc, wishRepo, clientRepo, notifRepo, userRepo, queue
}

func seedStaff(repo *stubUserRepo, username, role string, email *string) *model.User {
	u := &model.User{
		ID:       uuid.New(),
		Username: username,
		Name:     username,
		Email:    email,
		Role:     role,
		Active:   true,
	}
	repo.users[u.ID] = u
	return u
}

func TestMatchItem_FlagsWishAndNotifiesStaff(t *testing.T) {
	svc, wishRepo, clientRepo, notifRepo, userRepo, queue := buildWishlistSvc()
	client := clientRepo.seed("anna@example.com")
	salesEmail := "sales@store.example"
	sales := seedStaff(userRepo, "sales1", model.RoleSales, &salesEmail)
	seedStaff(userRepo, "admin1", model.RoleAdmin, nil) // admins are not in the fan-out

	wish, err := svc.Create(context.Background(), dto.CreateWishRequest{
		ClientID: client.ID.String(),
		Brand:    "Rolex",
	})
	require.NoError(t, err)

	item := &model.InventoryItem{
		ID:           uuid.New(),
		SerialNumber: "SN-3001",
		Brand:        "Rolex",
		Model:        "Daytona",
		RetailPrice:  decimal.NewFromInt(30000),
	}
	require.NoError(t, svc.MatchItem(context.Background(), item))

	stored, err := wishRepo.FindByID(context.Background(), uuid.MustParse(wish.ID))
	require.NoError(t, err)
	assert.Equal(t, "matched", stored.Status)
	require.NotNil(t, stored.MatchedItemID)
	assert.Equal(t, item.ID, *stored.MatchedItemID)

	// One in-app notification for the salesperson, none for the admin.
	require.Len(t, notifRepo.notifications, 1)
	assert.Equal(t, sales.ID, notifRepo.notifications[0].UserID)
	assert.Equal(t, model.KindWishlistMatch, notifRepo.notifications[0].Kind)

	// Email fan-out goes only to staff with an address on file.
	require.Len(t, queue.emails, 1)
	assert.Equal(t, []string{salesEmail}, queue.emails[0].To)
}

func TestMatchItem_ModelAndPriceFilters(t *testing.T) {
	svc, wishRepo, clientRepo, _, _, _ := buildWishlistSvc()
	client := clientRepo.seed("anna@example.com")

	wantModel := "Submariner"
	maxPrice := decimal.NewFromInt(10000)
	wishModel, err := svc.Create(context.Background(), dto.CreateWishRequest{
		ClientID: client.ID.String(),
		Brand:    "Rolex",
		Model:    &wantModel,
	})
	require.NoError(t, err)
	wishPrice, err := svc.Create(context.Background(), dto.CreateWishRequest{
		ClientID: client.ID.String(),
		Brand:    "Rolex",
		MaxPrice: &maxPrice,
	})
	require.NoError(t, err)

	// A Daytona above the price ceiling matches neither wish.
	item := &model.InventoryItem{
		ID:          uuid.New(),
		Brand:       "Rolex",
		Model:       "Daytona",
		RetailPrice: decimal.NewFromInt(30000),
	}
	require.NoError(t, svc.MatchItem(context.Background(), item))

	stored, _ := wishRepo.FindByID(context.Background(), uuid.MustParse(wishModel.ID))
	assert.Equal(t, "open", stored.Status)
	stored, _ = wishRepo.FindByID(context.Background(), uuid.MustParse(wishPrice.ID))
	assert.Equal(t, "open", stored.Status)

	// A Submariner under the ceiling matches both.
	item2 := &model.InventoryItem{
		ID:          uuid.New(),
		Brand:       "Rolex",
		Model:       "Submariner Date",
		RetailPrice: decimal.NewFromInt(9500),
	}
	require.NoError(t, svc.MatchItem(context.Background(), item2))

	stored, _ = wishRepo.FindByID(context.Background(), uuid.MustParse(wishModel.ID))
	assert.Equal(t, "matched", stored.Status)
	stored, _ = wishRepo.FindByID(context.Background(), uuid.MustParse(wishPrice.ID))
	assert.Equal(t, "matched", stored.Status)
}

func TestMatchItem_ClosedWishesIgnored(t *testing.T) {
	svc, wishRepo, clientRepo, notifRepo, _, _ := buildWishlistSvc()
	client := clientRepo.seed("anna@example.com")

	wish, err := svc.Create(context.Background(), dto.CreateWishRequest{
		ClientID: client.ID.String(),
		Brand:    "Rolex",
	})
	require.NoError(t, err)
	require.NoError(t, svc.Close(context.Background(), uuid.MustParse(wish.ID)))

	item := &model.InventoryItem{
		ID:          uuid.New(),
		Brand:       "Rolex",
		Model:       "Daytona",
		RetailPrice: decimal.NewFromInt(30000),
	}
	require.NoError(t, svc.MatchItem(context.Background(), item))

	stored, _ := wishRepo.FindByID(context.Background(), uuid.MustParse(wish.ID))
	assert.Equal(t, "closed", stored.Status)
	assert.Empty(t, notifRepo.notifications)
}
