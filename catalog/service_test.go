package catalog

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/storeapi-go/apperror"
)

type fixture struct {
	svc   Service
	repo  *memRepo
	store *StoreDetail
	item  *ItemDetail
	tag   *TagDetail
}

// newFixture seeds one store holding one item and one tag.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	repo := newMemRepo()
	svc := NewService(repo, log)
	ctx := context.Background()

	store, err := svc.CreateStore(ctx, CreateStoreRequest{Name: "Corner Shop"})
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, CreateItemRequest{Name: "Chair", Price: ptr(15.99), StoreID: store.ID})
	require.NoError(t, err)
	tag, err := svc.CreateStoreTag(ctx, store.ID, CreateTagRequest{Name: "furniture"})
	require.NoError(t, err)
	return &fixture{svc: svc, repo: repo, store: store, item: item, tag: tag}
}

func TestLinkTagIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		detail, err := f.svc.LinkTagToItem(ctx, f.item.ID, f.tag.ID)
		require.NoError(t, err)
		require.Len(t, detail.Items, 1)
		assert.Equal(t, f.item.ID, detail.Items[0].ID)
	}

	n, err := f.repo.CountTagLinks(ctx, f.tag.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	item, err := f.svc.GetItem(ctx, f.item.ID)
	require.NoError(t, err)
	require.Len(t, item.Tags, 1)
	assert.Equal(t, "furniture", item.Tags[0].Name)
	assert.Equal(t, "Corner Shop", item.Store.Name)
}

func TestLinkTagAcrossStoresIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.svc.CreateStore(ctx, CreateStoreRequest{Name: "Other Shop"})
	require.NoError(t, err)
	foreign, err := f.svc.CreateStoreTag(ctx, other.ID, CreateTagRequest{Name: "furniture"})
	require.NoError(t, err)

	_, err = f.svc.LinkTagToItem(ctx, f.item.ID, foreign.ID)
	assert.True(t, apperror.IsBadRequest(err))

	n, err := f.repo.CountTagLinks(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLinkTagMissingSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.LinkTagToItem(ctx, 999, f.tag.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = f.svc.LinkTagToItem(ctx, f.item.ID, 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUnlinkTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UnlinkTagFromItem(ctx, f.item.ID, f.tag.ID)
	assert.True(t, apperror.IsNotFound(err), "unlinking a pair that was never linked")

	_, err = f.svc.LinkTagToItem(ctx, f.item.ID, f.tag.ID)
	require.NoError(t, err)

	resp, err := f.svc.UnlinkTagFromItem(ctx, f.item.ID, f.tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tag removed from item", resp.Message)
	assert.Empty(t, resp.Item.Tags)
	assert.Empty(t, resp.Tag.Items)
}

func TestDeleteTagGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.LinkTagToItem(ctx, f.item.ID, f.tag.ID)
	require.NoError(t, err)

	err = f.svc.DeleteTag(ctx, f.tag.ID)
	require.True(t, apperror.IsBadRequest(err))
	assert.Equal(t, msgTagInUse, err.Error())

	_, err = f.svc.UnlinkTagFromItem(ctx, f.item.ID, f.tag.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteTag(ctx, f.tag.ID))

	_, err = f.svc.GetTag(ctx, f.tag.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(f.svc.DeleteTag(ctx, f.tag.ID)))
}

func TestStoreReadsAreNested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	store, err := f.svc.GetStore(ctx, f.store.ID)
	require.NoError(t, err)
	require.Len(t, store.Items, 1)
	require.Len(t, store.Tags, 1)

	tags, err := f.svc.ListStoreTags(ctx, f.store.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, f.store.ID, tags[0].Store.ID)

	_, err = f.svc.ListStoreTags(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteStoreCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.LinkTagToItem(ctx, f.item.ID, f.tag.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteStore(ctx, f.store.ID))

	_, err = f.svc.GetItem(ctx, f.item.ID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = f.svc.GetTag(ctx, f.tag.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(f.svc.DeleteStore(ctx, f.store.ID)))
}

func TestCreateDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateStore(ctx, CreateStoreRequest{Name: "Corner Shop"})
	assert.True(t, apperror.IsConflictError(err))
	_, err = f.svc.CreateItem(ctx, CreateItemRequest{Name: "Chair", Price: ptr(1.0), StoreID: f.store.ID})
	assert.True(t, apperror.IsConflictError(err))
	_, err = f.svc.CreateStoreTag(ctx, f.store.ID, CreateTagRequest{Name: "furniture"})
	assert.True(t, apperror.IsConflictError(err))

	_, err = f.svc.CreateItem(ctx, CreateItemRequest{Name: "Desk", Price: ptr(1.0), StoreID: 999})
	assert.True(t, apperror.IsNotFound(err))
	_, err = f.svc.CreateStoreTag(ctx, 999, CreateTagRequest{Name: "x"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpsertItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name, price, storeID := "Armchair", 99.5, f.store.ID

	updated, created, err := f.svc.UpsertItem(ctx, f.item.ID, UpdateItemRequest{Price: &price})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Chair", updated.Name)
	assert.Equal(t, 99.5, updated.Price)

	_, _, err = f.svc.UpsertItem(ctx, 50, UpdateItemRequest{Name: &name, Price: &price})
	assert.True(t, apperror.IsNotFound(err), "missing item without store_id")

	_, _, err = f.svc.UpsertItem(ctx, 50, UpdateItemRequest{Name: &name, StoreID: &storeID})
	assert.True(t, apperror.IsBadRequest(err), "missing item without price")

	_, _, err = f.svc.UpsertItem(ctx, 50, UpdateItemRequest{Name: &name, Price: &price, StoreID: &storeID})
	assert.True(t, apperror.IsBadRequest(err), "id past the next serial value")

	nextID := f.repo.nextID + 1
	item, created, err := f.svc.UpsertItem(ctx, nextID, UpdateItemRequest{Name: &name, Price: &price, StoreID: &storeID})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, nextID, item.ID)
	assert.Equal(t, "Corner Shop", item.Store.Name)

	later, err := f.svc.CreateItem(ctx, CreateItemRequest{Name: "Stool", Price: ptr(3.0), StoreID: storeID})
	require.NoError(t, err)
	assert.Greater(t, later.ID, nextID)

	missingStore := int64(999)
	_, _, err = f.svc.UpsertItem(ctx, 51, UpdateItemRequest{Name: &name, Price: &price, StoreID: &missingStore})
	assert.True(t, apperror.IsNotFound(err))
}
