package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/user/storeapi-go/apperror"
)

type link struct{ itemID, tagID int64 }

func ptr[T any](v T) *T { return &v }

// memRepo is an in-memory Repository with the same error contract as SQLRepository.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	stores map[int64]Store
	items  map[int64]Item
	tags   map[int64]Tag
	links  map[link]bool
}

func newMemRepo() *memRepo {
	return &memRepo{
		stores: map[int64]Store{},
		items:  map[int64]Item{},
		tags:   map[int64]Tag{},
		links:  map[link]bool{},
	}
}

func (m *memRepo) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memRepo) InTx(_ context.Context, fn func(Repository) error) error { return fn(m) }

func (m *memRepo) ListStores(context.Context) ([]Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Store{}
	for _, s := range m.stores {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) GetStore(_ context.Context, id int64) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[id]
	if !ok {
		return nil, apperror.NewNotFoundError(msgStoreNotFound, nil)
	}
	return &s, nil
}

func (m *memRepo) CreateStore(_ context.Context, store *Store) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.stores {
		if s.Name == store.Name {
			return apperror.NewConflictError(msgStoreExists, nil)
		}
	}
	store.ID = m.id()
	m.stores[store.ID] = *store
	return nil
}

func (m *memRepo) DeleteStore(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[id]; !ok {
		return apperror.NewNotFoundError(msgStoreNotFound, nil)
	}
	delete(m.stores, id)
	for itemID, it := range m.items {
		if it.StoreID == id {
			delete(m.items, itemID)
		}
	}
	for tagID, t := range m.tags {
		if t.StoreID == id {
			delete(m.tags, tagID)
		}
	}
	for l := range m.links {
		if _, ok := m.items[l.itemID]; !ok {
			delete(m.links, l)
		}
	}
	return nil
}

func (m *memRepo) filterItems(keep func(Item) bool) []Item {
	out := []Item{}
	for _, it := range m.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memRepo) ListItems(context.Context) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filterItems(func(Item) bool { return true }), nil
}

func (m *memRepo) ListItemsByStore(_ context.Context, storeID int64) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filterItems(func(it Item) bool { return it.StoreID == storeID }), nil
}

func (m *memRepo) ListItemsByTag(_ context.Context, tagID int64) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filterItems(func(it Item) bool { return m.links[link{it.ID, tagID}] }), nil
}

func (m *memRepo) GetItem(_ context.Context, id int64) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, apperror.NewNotFoundError(msgItemNotFound, nil)
	}
	return &it, nil
}

func (m *memRepo) CreateItem(_ context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[item.StoreID]; !ok {
		return apperror.NewNotFoundError(msgStoreNotFound, nil)
	}
	for _, it := range m.items {
		if it.StoreID == item.StoreID && it.Name == item.Name {
			return apperror.NewConflictError(msgItemExists, nil)
		}
	}
	switch {
	case item.ID == 0:
		item.ID = m.id()
	case item.ID > m.nextID+1:
		return apperror.NewBadRequestError(msgItemIDTooHigh, nil)
	case item.ID > m.nextID:
		m.nextID = item.ID
	}
	m.items[item.ID] = *item
	return nil
}

func (m *memRepo) UpdateItem(_ context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.items[item.ID]
	if !ok {
		return apperror.NewNotFoundError(msgItemNotFound, nil)
	}
	cur.Name, cur.Price = item.Name, item.Price
	m.items[item.ID] = cur
	return nil
}

func (m *memRepo) DeleteItem(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperror.NewNotFoundError(msgItemNotFound, nil)
	}
	delete(m.items, id)
	for l := range m.links {
		if l.itemID == id {
			delete(m.links, l)
		}
	}
	return nil
}

func (m *memRepo) filterTags(keep func(Tag) bool) []Tag {
	out := []Tag{}
	for _, t := range m.tags {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memRepo) ListTagsByStore(_ context.Context, storeID int64) ([]Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filterTags(func(t Tag) bool { return t.StoreID == storeID }), nil
}

func (m *memRepo) ListTagsByItem(_ context.Context, itemID int64) ([]Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filterTags(func(t Tag) bool { return m.links[link{itemID, t.ID}] }), nil
}

func (m *memRepo) GetTag(_ context.Context, id int64) (*Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tags[id]
	if !ok {
		return nil, apperror.NewNotFoundError(msgTagNotFound, nil)
	}
	return &t, nil
}

func (m *memRepo) CreateTag(_ context.Context, tag *Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stores[tag.StoreID]; !ok {
		return apperror.NewNotFoundError(msgStoreNotFound, nil)
	}
	for _, t := range m.tags {
		if t.StoreID == tag.StoreID && t.Name == tag.Name {
			return apperror.NewConflictError(msgTagExists, nil)
		}
	}
	tag.ID = m.id()
	m.tags[tag.ID] = *tag
	return nil
}

func (m *memRepo) DeleteTag(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[id]; !ok {
		return apperror.NewNotFoundError(msgTagNotFound, nil)
	}
	for l := range m.links {
		if l.tagID == id {
			return apperror.NewBadRequestError(msgTagInUse, nil)
		}
	}
	delete(m.tags, id)
	return nil
}

func (m *memRepo) LinkTag(_ context.Context, itemID, tagID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[link{itemID, tagID}] = true
	return nil
}

func (m *memRepo) UnlinkTag(_ context.Context, itemID, tagID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := link{itemID, tagID}
	if !m.links[l] {
		return false, nil
	}
	delete(m.links, l)
	return true, nil
}

func (m *memRepo) CountTagLinks(_ context.Context, tagID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for l := range m.links {
		if l.tagID == tagID {
			n++
		}
	}
	return n, nil
}

var _ Repository = (*memRepo)(nil)
