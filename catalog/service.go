package catalog

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/user/storeapi-go/apperror"
)

// Service defines the catalog operations used by the HTTP handlers.
type Service interface {
	ListStores(ctx context.Context) ([]StoreDetail, error)
	GetStore(ctx context.Context, id int64) (*StoreDetail, error)
	CreateStore(ctx context.Context, req CreateStoreRequest) (*StoreDetail, error)
	DeleteStore(ctx context.Context, id int64) error

	ListItems(ctx context.Context) ([]ItemDetail, error)
	GetItem(ctx context.Context, id int64) (*ItemDetail, error)
	CreateItem(ctx context.Context, req CreateItemRequest) (*ItemDetail, error)
	// UpsertItem updates the item, or creates it under the given id when it does
	// not exist and the request names a store. created reports which happened.
	UpsertItem(ctx context.Context, id int64, req UpdateItemRequest) (item *ItemDetail, created bool, err error)
	DeleteItem(ctx context.Context, id int64) error

	ListStoreTags(ctx context.Context, storeID int64) ([]TagDetail, error)
	CreateStoreTag(ctx context.Context, storeID int64, req CreateTagRequest) (*TagDetail, error)
	GetTag(ctx context.Context, id int64) (*TagDetail, error)
	DeleteTag(ctx context.Context, id int64) error

	LinkTagToItem(ctx context.Context, itemID, tagID int64) (*TagDetail, error)
	UnlinkTagFromItem(ctx context.Context, itemID, tagID int64) (*TagItemResponse, error)
}

// serviceImpl is the concrete implementation of Service.
type serviceImpl struct {
	repo Repository
	log  logrus.FieldLogger
}

// NewService creates a catalog Service backed by repo.
func NewService(repo Repository, log logrus.FieldLogger) Service {
	return &serviceImpl{repo: repo, log: log}
}

// --- detail loaders ---

func storeDetail(ctx context.Context, repo Repository, store *Store) (*StoreDetail, error) {
	items, err := repo.ListItemsByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	tags, err := repo.ListTagsByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	return &StoreDetail{Store: *store, Items: items, Tags: tags}, nil
}

func itemDetail(ctx context.Context, repo Repository, item *Item) (*ItemDetail, error) {
	store, err := repo.GetStore(ctx, item.StoreID)
	if err != nil {
		return nil, err
	}
	tags, err := repo.ListTagsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	return &ItemDetail{Item: *item, Store: *store, Tags: tags}, nil
}

func tagDetail(ctx context.Context, repo Repository, tag *Tag) (*TagDetail, error) {
	store, err := repo.GetStore(ctx, tag.StoreID)
	if err != nil {
		return nil, err
	}
	items, err := repo.ListItemsByTag(ctx, tag.ID)
	if err != nil {
		return nil, err
	}
	return &TagDetail{Tag: *tag, Store: *store, Items: items}, nil
}

// --- stores ---

func (s *serviceImpl) ListStores(ctx context.Context) ([]StoreDetail, error) {
	stores, err := s.repo.ListStores(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StoreDetail, 0, len(stores))
	for i := range stores {
		d, err := storeDetail(ctx, s.repo, &stores[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *serviceImpl) GetStore(ctx context.Context, id int64) (*StoreDetail, error) {
	store, err := s.repo.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}
	return storeDetail(ctx, s.repo, store)
}

func (s *serviceImpl) CreateStore(ctx context.Context, req CreateStoreRequest) (*StoreDetail, error) {
	store := &Store{Name: req.Name}
	if err := s.repo.CreateStore(ctx, store); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"store_id": store.ID, "name": store.Name}).Info("store created")
	return &StoreDetail{Store: *store, Items: []Item{}, Tags: []Tag{}}, nil
}

func (s *serviceImpl) DeleteStore(ctx context.Context, id int64) error {
	if err := s.repo.DeleteStore(ctx, id); err != nil {
		return err
	}
	s.log.WithField("store_id", id).Info("store deleted")
	return nil
}

// --- items ---

func (s *serviceImpl) ListItems(ctx context.Context) ([]ItemDetail, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ItemDetail, 0, len(items))
	for i := range items {
		d, err := itemDetail(ctx, s.repo, &items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *serviceImpl) GetItem(ctx context.Context, id int64) (*ItemDetail, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return itemDetail(ctx, s.repo, item)
}

func (s *serviceImpl) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemDetail, error) {
	var detail *ItemDetail
	err := s.repo.InTx(ctx, func(tx Repository) error {
		store, err := tx.GetStore(ctx, req.StoreID)
		if err != nil {
			return err
		}
		item := &Item{Name: req.Name, Price: *req.Price, StoreID: store.ID}
		if err := tx.CreateItem(ctx, item); err != nil {
			return err
		}
		detail = &ItemDetail{Item: *item, Store: *store, Tags: []Tag{}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"item_id": detail.ID, "store_id": detail.StoreID}).Info("item created")
	return detail, nil
}

func (s *serviceImpl) UpsertItem(ctx context.Context, id int64, req UpdateItemRequest) (*ItemDetail, bool, error) {
	var (
		detail  *ItemDetail
		created bool
	)
	err := s.repo.InTx(ctx, func(tx Repository) error {
		item, err := tx.GetItem(ctx, id)
		switch {
		case err == nil:
			if req.Name != nil {
				item.Name = *req.Name
			}
			if req.Price != nil {
				item.Price = *req.Price
			}
			if err := tx.UpdateItem(ctx, item); err != nil {
				return err
			}
		case apperror.IsNotFound(err) && req.StoreID != nil:
			if req.Name == nil || req.Price == nil {
				return apperror.NewBadRequestError("name, price and store_id are required to create an item.", nil)
			}
			if _, err := tx.GetStore(ctx, *req.StoreID); err != nil {
				return err
			}
			item = &Item{ID: id, Name: *req.Name, Price: *req.Price, StoreID: *req.StoreID}
			if err := tx.CreateItem(ctx, item); err != nil {
				return err
			}
			created = true
		default:
			return err
		}

		detail, err = itemDetail(ctx, tx, item)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return detail, created, nil
}

func (s *serviceImpl) DeleteItem(ctx context.Context, id int64) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.log.WithField("item_id", id).Info("item deleted")
	return nil
}

// --- tags ---

func (s *serviceImpl) ListStoreTags(ctx context.Context, storeID int64) ([]TagDetail, error) {
	store, err := s.repo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	tags, err := s.repo.ListTagsByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	out := make([]TagDetail, 0, len(tags))
	for i := range tags {
		items, err := s.repo.ListItemsByTag(ctx, tags[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, TagDetail{Tag: tags[i], Store: *store, Items: items})
	}
	return out, nil
}

func (s *serviceImpl) CreateStoreTag(ctx context.Context, storeID int64, req CreateTagRequest) (*TagDetail, error) {
	var detail *TagDetail
	err := s.repo.InTx(ctx, func(tx Repository) error {
		store, err := tx.GetStore(ctx, storeID)
		if err != nil {
			return err
		}
		tag := &Tag{Name: req.Name, StoreID: store.ID}
		if err := tx.CreateTag(ctx, tag); err != nil {
			return err
		}
		detail = &TagDetail{Tag: *tag, Store: *store, Items: []Item{}}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *serviceImpl) GetTag(ctx context.Context, id int64) (*TagDetail, error) {
	tag, err := s.repo.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	return tagDetail(ctx, s.repo, tag)
}

// DeleteTag refuses to delete a tag that is still attached to any item.
func (s *serviceImpl) DeleteTag(ctx context.Context, id int64) error {
	err := s.repo.InTx(ctx, func(tx Repository) error {
		if _, err := tx.GetTag(ctx, id); err != nil {
			return err
		}
		links, err := tx.CountTagLinks(ctx, id)
		if err != nil {
			return err
		}
		if links > 0 {
			return apperror.NewBadRequestError(msgTagInUse, nil)
		}
		return tx.DeleteTag(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.WithField("tag_id", id).Info("tag deleted")
	return nil
}

// --- links ---

// LinkTagToItem attaches the tag to the item. Attaching twice leaves a single link.
func (s *serviceImpl) LinkTagToItem(ctx context.Context, itemID, tagID int64) (*TagDetail, error) {
	var detail *TagDetail
	err := s.repo.InTx(ctx, func(tx Repository) error {
		item, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		tag, err := tx.GetTag(ctx, tagID)
		if err != nil {
			return err
		}
		if item.StoreID != tag.StoreID {
			return apperror.NewBadRequestError("Make sure item and tag belong to the same store before linking.", nil)
		}
		if err := tx.LinkTag(ctx, item.ID, tag.ID); err != nil {
			return err
		}
		detail, err = tagDetail(ctx, tx, tag)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// UnlinkTagFromItem detaches the tag. A pair that was never linked is NotFound.
func (s *serviceImpl) UnlinkTagFromItem(ctx context.Context, itemID, tagID int64) (*TagItemResponse, error) {
	var resp *TagItemResponse
	err := s.repo.InTx(ctx, func(tx Repository) error {
		item, err := tx.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		tag, err := tx.GetTag(ctx, tagID)
		if err != nil {
			return err
		}
		removed, err := tx.UnlinkTag(ctx, item.ID, tag.ID)
		if err != nil {
			return err
		}
		if !removed {
			return apperror.NewNotFoundError("Tag is not linked to this item.", nil)
		}

		id, err := itemDetail(ctx, tx, item)
		if err != nil {
			return err
		}
		td, err := tagDetail(ctx, tx, tag)
		if err != nil {
			return err
		}
		resp = &TagItemResponse{Message: "Tag removed from item", Item: *id, Tag: *td}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

var _ Service = (*serviceImpl)(nil)
