package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/user/storeapi-go/apperror"
	"github.com/user/storeapi-go/db"
)

// Error messages shared by the repository and the service.
const (
	msgStoreNotFound  = "Store not found."
	msgItemNotFound   = "Item not found."
	msgTagNotFound    = "Tag not found."
	msgTagInUse       = "Tag cannot be deleted. Make sure tag is not associated with any items first."
	msgStoreExists    = "A store with that name already exists."
	msgItemExists     = "An item with that name already exists in this store."
	msgTagExists      = "A tag with that name already exists in that store."
	msgItemIDTooHigh  = "Item id is past the next available id."
	msgDatabaseFailed = "An error occurred while accessing the catalog."
)

// Repository is the persistence port for the catalog. Get* methods return a
// NotFound AppError when the row does not exist.
type Repository interface {
	// InTx runs fn with a repository bound to a single transaction.
	InTx(ctx context.Context, fn func(Repository) error) error

	ListStores(ctx context.Context) ([]Store, error)
	GetStore(ctx context.Context, id int64) (*Store, error)
	CreateStore(ctx context.Context, store *Store) error
	DeleteStore(ctx context.Context, id int64) error

	ListItems(ctx context.Context) ([]Item, error)
	ListItemsByStore(ctx context.Context, storeID int64) ([]Item, error)
	ListItemsByTag(ctx context.Context, tagID int64) ([]Item, error)
	GetItem(ctx context.Context, id int64) (*Item, error)
	// CreateItem inserts the item. A non-zero ID is kept as the primary key as long
	// as it is not past the next id the serial would hand out; otherwise BadRequest.
	CreateItem(ctx context.Context, item *Item) error
	// UpdateItem saves name and price; an item never moves between stores.
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id int64) error

	ListTagsByStore(ctx context.Context, storeID int64) ([]Tag, error)
	ListTagsByItem(ctx context.Context, itemID int64) ([]Tag, error)
	GetTag(ctx context.Context, id int64) (*Tag, error)
	CreateTag(ctx context.Context, tag *Tag) error
	DeleteTag(ctx context.Context, id int64) error

	// LinkTag is idempotent: linking an already linked pair changes nothing.
	LinkTag(ctx context.Context, itemID, tagID int64) error
	// UnlinkTag reports whether a link existed.
	UnlinkTag(ctx context.Context, itemID, tagID int64) (bool, error)
	CountTagLinks(ctx context.Context, tagID int64) (int, error)
}

// SQLRepository implements Repository on PostgreSQL through sqlx.
type SQLRepository struct {
	db  *sqlx.DB // nil when bound to a transaction
	ext sqlx.ExtContext
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{db: db, ext: db}
}

func (r *SQLRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	if r.db == nil {
		// Already inside a transaction.
		return fn(r)
	}
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(&SQLRepository{ext: tx})
	})
}

func dbError(err error) error {
	return apperror.NewDatabaseError(msgDatabaseFailed, err)
}

func (r *SQLRepository) get(ctx context.Context, dest interface{}, notFound, query string, args ...interface{}) error {
	err := sqlx.GetContext(ctx, r.ext, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return apperror.NewNotFoundError(notFound, nil)
	}
	if err != nil {
		return dbError(err)
	}
	return nil
}

// deleteByID runs a single-row delete. inUse, when set, is the message for a
// foreign key that still references the row.
func (r *SQLRepository) deleteByID(ctx context.Context, query, notFound, inUse string, id int64) error {
	res, err := r.ext.ExecContext(ctx, query, id)
	if err != nil {
		if inUse != "" && db.IsForeignKeyViolation(err) {
			return apperror.NewBadRequestError(inUse, err)
		}
		return dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(notFound, nil)
	}
	return nil
}

// --- stores ---

func (r *SQLRepository) ListStores(ctx context.Context) ([]Store, error) {
	stores := []Store{}
	if err := sqlx.SelectContext(ctx, r.ext, &stores, `SELECT id, name FROM stores ORDER BY id`); err != nil {
		return nil, dbError(err)
	}
	return stores, nil
}

func (r *SQLRepository) GetStore(ctx context.Context, id int64) (*Store, error) {
	var s Store
	if err := r.get(ctx, &s, msgStoreNotFound, `SELECT id, name FROM stores WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLRepository) CreateStore(ctx context.Context, store *Store) error {
	err := r.ext.QueryRowxContext(ctx, `INSERT INTO stores (name) VALUES ($1) RETURNING id`, store.Name).Scan(&store.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return apperror.NewConflictError(msgStoreExists, err)
		}
		return dbError(err)
	}
	return nil
}

// DeleteStore removes the store; items and tags go with it via ON DELETE CASCADE.
// Links are cleared first so the NO ACTION check on items_tags.tag_id never
// depends on the order in which the cascades fire.
func (r *SQLRepository) DeleteStore(ctx context.Context, id int64) error {
	return r.InTx(ctx, func(tx Repository) error {
		sr := tx.(*SQLRepository)
		if _, err := sr.ext.ExecContext(ctx,
			`DELETE FROM items_tags WHERE item_id IN (SELECT id FROM items WHERE store_id = $1)`, id); err != nil {
			return dbError(err)
		}
		return sr.deleteByID(ctx, `DELETE FROM stores WHERE id = $1`, msgStoreNotFound, "", id)
	})
}

// --- items ---

const itemColumns = `i.id, i.name, i.price::float8 AS price, i.store_id`

func (r *SQLRepository) ListItems(ctx context.Context) ([]Item, error) {
	return r.selectItems(ctx, `SELECT `+itemColumns+` FROM items i ORDER BY i.id`)
}

func (r *SQLRepository) ListItemsByStore(ctx context.Context, storeID int64) ([]Item, error) {
	return r.selectItems(ctx, `SELECT `+itemColumns+` FROM items i WHERE i.store_id = $1 ORDER BY i.id`, storeID)
}

func (r *SQLRepository) ListItemsByTag(ctx context.Context, tagID int64) ([]Item, error) {
	return r.selectItems(ctx, `SELECT `+itemColumns+`
		FROM items i
		JOIN items_tags it ON it.item_id = i.id
		WHERE it.tag_id = $1
		ORDER BY i.id`, tagID)
}

func (r *SQLRepository) selectItems(ctx context.Context, query string, args ...interface{}) ([]Item, error) {
	items := []Item{}
	if err := sqlx.SelectContext(ctx, r.ext, &items, query, args...); err != nil {
		return nil, dbError(err)
	}
	return items, nil
}

func (r *SQLRepository) GetItem(ctx context.Context, id int64) (*Item, error) {
	var it Item
	if err := r.get(ctx, &it, msgItemNotFound, `SELECT `+itemColumns+` FROM items i WHERE i.id = $1`, id); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *SQLRepository) CreateItem(ctx context.Context, item *Item) error {
	var err error
	if item.ID == 0 {
		err = r.ext.QueryRowxContext(ctx,
			`INSERT INTO items (name, price, store_id) VALUES ($1, $2, $3) RETURNING id`,
			item.Name, item.Price, item.StoreID).Scan(&item.ID)
	} else {
		// An explicit id may fill a gap or take the next serial value but never
		// jump ahead, so the sequence cannot be pushed to its maximum.
		var next int64
		if err := sqlx.GetContext(ctx, r.ext, &next,
			`SELECT GREATEST(COALESCE(MAX(id), 0), (SELECT last_value FROM items_id_seq)) + 1 FROM items`); err != nil {
			return dbError(err)
		}
		if item.ID > next {
			return apperror.NewBadRequestError(msgItemIDTooHigh, nil)
		}
		_, err = r.ext.ExecContext(ctx,
			`INSERT INTO items (id, name, price, store_id) VALUES ($1, $2, $3, $4)`,
			item.ID, item.Name, item.Price, item.StoreID)
		if err == nil {
			// Keep the serial ahead of explicitly chosen ids without moving it back.
			_, err = r.ext.ExecContext(ctx,
				`SELECT setval('items_id_seq', GREATEST((SELECT MAX(id) FROM items), (SELECT last_value FROM items_id_seq)))`)
		}
	}
	return itemWriteError(err)
}

func (r *SQLRepository) UpdateItem(ctx context.Context, item *Item) error {
	res, err := r.ext.ExecContext(ctx,
		`UPDATE items SET name = $1, price = $2 WHERE id = $3`,
		item.Name, item.Price, item.ID)
	if err != nil {
		return itemWriteError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err)
	}
	if n == 0 {
		return apperror.NewNotFoundError(msgItemNotFound, nil)
	}
	return nil
}

func itemWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err):
		return apperror.NewConflictError(msgItemExists, err)
	case db.IsForeignKeyViolation(err):
		return apperror.NewNotFoundError(msgStoreNotFound, err)
	default:
		return dbError(err)
	}
}

func (r *SQLRepository) DeleteItem(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM items WHERE id = $1`, msgItemNotFound, "", id)
}

// --- tags ---

func (r *SQLRepository) ListTagsByStore(ctx context.Context, storeID int64) ([]Tag, error) {
	return r.selectTags(ctx, `SELECT id, name, store_id FROM tags WHERE store_id = $1 ORDER BY id`, storeID)
}

func (r *SQLRepository) ListTagsByItem(ctx context.Context, itemID int64) ([]Tag, error) {
	return r.selectTags(ctx, `SELECT t.id, t.name, t.store_id
		FROM tags t
		JOIN items_tags it ON it.tag_id = t.id
		WHERE it.item_id = $1
		ORDER BY t.id`, itemID)
}

func (r *SQLRepository) selectTags(ctx context.Context, query string, args ...interface{}) ([]Tag, error) {
	tags := []Tag{}
	if err := sqlx.SelectContext(ctx, r.ext, &tags, query, args...); err != nil {
		return nil, dbError(err)
	}
	return tags, nil
}

func (r *SQLRepository) GetTag(ctx context.Context, id int64) (*Tag, error) {
	var t Tag
	if err := r.get(ctx, &t, msgTagNotFound, `SELECT id, name, store_id FROM tags WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *SQLRepository) CreateTag(ctx context.Context, tag *Tag) error {
	err := r.ext.QueryRowxContext(ctx,
		`INSERT INTO tags (name, store_id) VALUES ($1, $2) RETURNING id`, tag.Name, tag.StoreID).Scan(&tag.ID)
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err):
		return apperror.NewConflictError(msgTagExists, err)
	case db.IsForeignKeyViolation(err):
		return apperror.NewNotFoundError(msgStoreNotFound, err)
	default:
		return dbError(err)
	}
}

// DeleteTag fails with BadRequest if a link still references the tag.
func (r *SQLRepository) DeleteTag(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, `DELETE FROM tags WHERE id = $1`, msgTagNotFound, msgTagInUse, id)
}

// --- links ---

func (r *SQLRepository) LinkTag(ctx context.Context, itemID, tagID int64) error {
	_, err := r.ext.ExecContext(ctx,
		`INSERT INTO items_tags (item_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, itemID, tagID)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return apperror.NewNotFoundError("Item or tag not found.", err)
		}
		return dbError(err)
	}
	return nil
}

func (r *SQLRepository) UnlinkTag(ctx context.Context, itemID, tagID int64) (bool, error) {
	res, err := r.ext.ExecContext(ctx, `DELETE FROM items_tags WHERE item_id = $1 AND tag_id = $2`, itemID, tagID)
	if err != nil {
		return false, dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbError(err)
	}
	return n > 0, nil
}

func (r *SQLRepository) CountTagLinks(ctx context.Context, tagID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.ext, &n, `SELECT COUNT(*) FROM items_tags WHERE tag_id = $1`, tagID); err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

var _ Repository = (*SQLRepository)(nil)
