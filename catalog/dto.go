package catalog

// CreateStoreRequest is the body of POST /store.
type CreateStoreRequest struct {
	Name string `json:"name" validate:"required,max=80" example:"Corner Shop"`
}

// CreateItemRequest is the body of POST /item. Prices must fit NUMERIC(10, 2).
type CreateItemRequest struct {
	Name    string   `json:"name" validate:"required,max=80" example:"Chair"`
	Price   *float64 `json:"price" validate:"required,gte=0,lt=100000000" example:"15.99"`
	StoreID int64    `json:"store_id" validate:"required,gt=0" example:"1"`
}

// UpdateItemRequest is the body of PUT /item/{item_id}. Omitted fields keep their value.
// Creating a missing item needs name, price and store_id.
type UpdateItemRequest struct {
	Name    *string  `json:"name,omitempty" validate:"omitempty,min=1,max=80" example:"Chair"`
	Price   *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lt=100000000" example:"17.49"`
	StoreID *int64   `json:"store_id,omitempty" validate:"omitempty,gt=0" example:"1"`
}

// CreateTagRequest is the body of POST /store/{store_id}/tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=80" example:"furniture"`
}
