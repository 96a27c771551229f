// Package catalog manages stores, the items they sell and the tags used to group
// those items. Items and tags belong to exactly one store; an item can carry any
// number of its store's tags.
package catalog

// Store is a shop owning items and tags.
type Store struct {
	ID   int64  `db:"id" json:"id" example:"1"`
	Name string `db:"name" json:"name" example:"Corner Shop"`
}

// Item is something a store sells.
type Item struct {
	ID      int64   `db:"id" json:"id" example:"1"`
	Name    string  `db:"name" json:"name" example:"Chair"`
	Price   float64 `db:"price" json:"price" example:"15.99"`
	StoreID int64   `db:"store_id" json:"store_id" example:"1"`
}

// Tag labels items within a single store.
type Tag struct {
	ID      int64  `db:"id" json:"id" example:"1"`
	Name    string `db:"name" json:"name" example:"furniture"`
	StoreID int64  `db:"store_id" json:"store_id" example:"1"`
}

// StoreDetail is a store with its items and tags.
type StoreDetail struct {
	Store
	Items []Item `json:"items"`
	Tags  []Tag  `json:"tags"`
}

// ItemDetail is an item with its store and tags.
type ItemDetail struct {
	Item
	Store Store `json:"store"`
	Tags  []Tag `json:"tags"`
}

// TagDetail is a tag with its store and the items carrying it.
type TagDetail struct {
	Tag
	Store Store  `json:"store"`
	Items []Item `json:"items"`
}

// TagItemResponse reports an unlink together with the updated item and tag.
type TagItemResponse struct {
	Message string     `json:"message" example:"Tag removed from item"`
	Item    ItemDetail `json:"item"`
	Tag     TagDetail  `json:"tag"`
}
