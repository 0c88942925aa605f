package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/dto"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/model"
	"github.com/NitchBekker23/Vault-CRM-V1-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMatcher captures items passed to the wishlist matcher.
type recordingMatcher struct {
	items []*model.InventoryItem
	err   error
}

func (m *recordingMatcher) MatchItem(_ context.Context, it *model.InventoryItem) error {
	m.items = append(m.items, it)
	return m.err
}

// fakeCache is an in-memory SerialCache with hit/miss counters.
type fakeCache struct {
	entries map[string]*model.InventoryItem
	hits    int
	misses  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*model.InventoryItem)}
}

func (c *fakeCache) Get(_ context.Context, serial string) (*model.InventoryItem, bool) {
	it, ok := c.entries[serial]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return it, ok
}

func (c *fakeCache) Set(_ context.Context, it *model.InventoryItem) {
	c.entries[it.SerialNumber] = it
}

func (c *fakeCache) Invalidate(_ context.Context, serial string) {
	delete(c.entries, serial)
}

func createReq(serial string) dto.CreateItemRequest {
	return dto.CreateItemRequest{
		SerialNumber: serial,
		Brand:        "Omega",
		Model:        "Speedmaster",
		CostPrice:    decimal.NewFromInt(3000),
		RetailPrice:  decimal.NewFromInt(6500),
	}
}

func TestCreateItem_DuplicateSerialRejected(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := service.NewInventoryService(repo, nil, nil)

	_, err := svc.Create(context.Background(), createReq("SN-2001"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), createReq("SN-2001"))
	assert.ErrorIs(t, err, service.ErrSerialTaken)
}

func TestCreateItem_RunsWishlistMatcher(t *testing.T) {
	repo := newStubInventoryRepo()
	matcher := &recordingMatcher{}
	svc := service.NewInventoryService(repo, matcher, nil)

	resp, err := svc.Create(context.Background(), createReq("SN-2001"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusInStock, resp.Status)
	require.Len(t, matcher.items, 1)
	assert.Equal(t, "SN-2001", matcher.items[0].SerialNumber)
}

func TestCreateItem_MatcherFailureDoesNotFailIntake(t *testing.T) {
	repo := newStubInventoryRepo()
	matcher := &recordingMatcher{err: errors.New("notification store down")}
	svc := service.NewInventoryService(repo, matcher, nil)

	resp, err := svc.Create(context.Background(), createReq("SN-2001"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}

func TestAdjustStatus_RefusesSoldItems(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := service.NewInventoryService(repo, nil, nil)
	item := repo.seed("SN-2001")
	item.Status = model.StatusSold

	_, err := svc.AdjustStatus(context.Background(), uuid.New(), item.ID, dto.AdjustStatusRequest{
		Status: model.StatusReserved,
		Reason: "client hold",
	})
	assert.ErrorIs(t, err, service.ErrItemSold)
	assert.Equal(t, model.StatusSold, repo.items[item.ID].Status)
}

func TestAdjustStatus_ManualFlip(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := service.NewInventoryService(repo, nil, nil)
	item := repo.seed("SN-2001")

	resp, err := svc.AdjustStatus(context.Background(), uuid.New(), item.ID, dto.AdjustStatusRequest{
		Status: model.StatusReserved,
		Reason: "client hold",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusReserved, resp.Status)
	assert.Equal(t, model.StatusReserved, repo.items[item.ID].Status)
}

func TestDeactivate_RefusesSoldItems(t *testing.T) {
	repo := newStubInventoryRepo()
	svc := service.NewInventoryService(repo, nil, nil)
	item := repo.seed("SN-2001")
	item.Status = model.StatusSold

	err := svc.Deactivate(context.Background(), item.ID)
	assert.ErrorIs(t, err, service.ErrItemSold)
	assert.True(t, repo.items[item.ID].Active)
}

func TestGetBySerial_ReadThroughCache(t *testing.T) {
	repo := newStubInventoryRepo()
	cache := newFakeCache()
	svc := service.NewInventoryService(repo, nil, cache)
	item := repo.seed("SN-2001")

	// First read misses and fills the cache.
	resp, err := svc.GetBySerial(context.Background(), "SN-2001")
	require.NoError(t, err)
	assert.Equal(t, item.ID.String(), resp.ID)
	assert.Equal(t, 1, cache.misses)
	assert.Equal(t, 0, cache.hits)

	// Second read hits.
	_, err = svc.GetBySerial(context.Background(), "SN-2001")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)

	// A write evicts the entry.
	newBrand := "Cartier"
	_, err = svc.Update(context.Background(), item.ID, dto.UpdateItemRequest{Brand: &newBrand})
	require.NoError(t, err)
	_, err = svc.GetBySerial(context.Background(), "SN-2001")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.misses)
}
