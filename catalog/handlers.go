package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/storeapi-go/httpx"
)

// Guards are the token checks applied to the item routes.
type Guards struct {
	Access func(http.Handler) http.Handler
	Fresh  func(http.Handler) http.Handler
	Admin  func(http.Handler) http.Handler
}

// Handlers wraps the catalog Service to provide HTTP handlers.
type Handlers struct {
	service Service
}

// NewHandlers creates catalog Handlers.
func NewHandlers(service Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the store, item, tag and link routes.
func (h *Handlers) RegisterRoutes(r chi.Router, g Guards) {
	r.Route("/store", func(r chi.Router) {
		r.Get("/", h.HandleListStores())
		r.Post("/", h.HandleCreateStore())
		r.Get("/{store_id}", h.HandleGetStore())
		r.Delete("/{store_id}", h.HandleDeleteStore())
		r.Get("/{store_id}/tag", h.HandleListStoreTags())
		r.Post("/{store_id}/tag", h.HandleCreateStoreTag())
	})

	r.Route("/item", func(r chi.Router) {
		r.With(g.Access).Get("/", h.HandleListItems())
		r.With(g.Fresh).Post("/", h.HandleCreateItem())
		r.With(g.Access).Get("/{item_id}", h.HandleGetItem())
		r.With(g.Access).Put("/{item_id}", h.HandleUpsertItem())
		r.With(g.Admin).Delete("/{item_id}", h.HandleDeleteItem())
		r.Post("/{item_id}/tag/{tag_id}", h.HandleLinkTag())
		r.Delete("/{item_id}/tag/{tag_id}", h.HandleUnlinkTag())
	})

	r.Get("/tag/{tag_id}", h.HandleGetTag())
	r.Delete("/tag/{tag_id}", h.HandleDeleteTag())
}

// --- stores ---

// HandleListStores godoc
// @Summary List stores
// @Tags Stores
// @Produce json
// @Success 200 {array} catalog.StoreDetail
// @Router /store [get]
func (h *Handlers) HandleListStores() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stores, err := h.service.ListStores(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, stores)
	}
}

// HandleCreateStore godoc
// @Summary Create a store
// @Tags Stores
// @Accept json
// @Produce json
// @Param storeBody body catalog.CreateStoreRequest true "Store"
// @Success 201 {object} catalog.StoreDetail
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 409 {object} apperror.ErrorResponse "Duplicate name"
// @Router /store [post]
func (h *Handlers) HandleCreateStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateStoreRequest
		if err := httpx.DecodeAndValidate(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		store, err := h.service.CreateStore(r.Context(), req)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, store)
	}
}

// HandleGetStore godoc
// @Summary Get a store with its items and tags
// @Tags Stores
// @Produce json
// @Param store_id path int true "Store ID"
// @Success 200 {object} catalog.StoreDetail
// @Failure 404 {object} apperror.ErrorResponse
// @Router /store/{store_id} [get]
func (h *Handlers) HandleGetStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "store_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		store, err := h.service.GetStore(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, store)
	}
}

// HandleDeleteStore godoc
// @Summary Delete a store
// @Description Removes the store together with its items and tags.
// @Tags Stores
// @Produce json
// @Param store_id path int true "Store ID"
// @Success 200 {object} httpx.MessageResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /store/{store_id} [delete]
func (h *Handlers) HandleDeleteStore() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "store_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := h.service.DeleteStore(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteMessage(w, http.StatusOK, "Store deleted.")
	}
}

// --- items ---

// HandleListItems godoc
// @Summary List items
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Success 200 {array} catalog.ItemDetail
// @Failure 401 {object} apperror.ErrorResponse
// @Router /item [get]
func (h *Handlers) HandleListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.service.ListItems(r.Context())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)
	}
}

// HandleCreateItem godoc
// @Summary Create an item
// @Description Requires a fresh access token.
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param itemBody body catalog.CreateItemRequest true "Item"
// @Success 201 {object} catalog.ItemDetail
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Store not found"
// @Failure 409 {object} apperror.ErrorResponse "Duplicate name"
// @Router /item [post]
func (h *Handlers) HandleCreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateItemRequest
		if err := httpx.DecodeAndValidate(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		item, err := h.service.CreateItem(r.Context(), req)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, item)
	}
}

// HandleGetItem godoc
// @Summary Get an item with its store and tags
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Param item_id path int true "Item ID"
// @Success 200 {object} catalog.ItemDetail
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /item/{item_id} [get]
func (h *Handlers) HandleGetItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "item_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		item, err := h.service.GetItem(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, item)
	}
}

// HandleUpsertItem godoc
// @Summary Update an item
// @Description Updates name and price. A missing item is created under the given id when name, price and store_id are all supplied.
// @Tags Items
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item_id path int true "Item ID"
// @Param itemBody body catalog.UpdateItemRequest true "Fields to change"
// @Success 200 {object} catalog.ItemDetail
// @Success 201 {object} catalog.ItemDetail
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /item/{item_id} [put]
func (h *Handlers) HandleUpsertItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "item_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req UpdateItemRequest
		if err := httpx.DecodeAndValidate(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		item, created, err := h.service.UpsertItem(r.Context(), id, req)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		httpx.WriteJSON(w, status, item)
	}
}

// HandleDeleteItem godoc
// @Summary Delete an item
// @Description Requires an access token carrying is_admin.
// @Tags Items
// @Produce json
// @Security BearerAuth
// @Param item_id path int true "Item ID"
// @Success 200 {object} httpx.MessageResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /item/{item_id} [delete]
func (h *Handlers) HandleDeleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "item_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := h.service.DeleteItem(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteMessage(w, http.StatusOK, "Item deleted.")
	}
}

// --- tags ---

// HandleListStoreTags godoc
// @Summary List the tags of a store
// @Tags Tags
// @Produce json
// @Param store_id path int true "Store ID"
// @Success 200 {array} catalog.TagDetail
// @Failure 404 {object} apperror.ErrorResponse
// @Router /store/{store_id}/tag [get]
func (h *Handlers) HandleListStoreTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := httpx.PathID(r, "store_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		tags, err := h.service.ListStoreTags(r.Context(), storeID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, tags)
	}
}

// HandleCreateStoreTag godoc
// @Summary Create a tag in a store
// @Tags Tags
// @Accept json
// @Produce json
// @Param store_id path int true "Store ID"
// @Param tagBody body catalog.CreateTagRequest true "Tag"
// @Success 201 {object} catalog.TagDetail
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "Store not found"
// @Failure 409 {object} apperror.ErrorResponse "Duplicate name"
// @Router /store/{store_id}/tag [post]
func (h *Handlers) HandleCreateStoreTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID, err := httpx.PathID(r, "store_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		var req CreateTagRequest
		if err := httpx.DecodeAndValidate(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		tag, err := h.service.CreateStoreTag(r.Context(), storeID, req)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, tag)
	}
}

// HandleGetTag godoc
// @Summary Get a tag with its store and items
// @Tags Tags
// @Produce json
// @Param tag_id path int true "Tag ID"
// @Success 200 {object} catalog.TagDetail
// @Failure 404 {object} apperror.ErrorResponse
// @Router /tag/{tag_id} [get]
func (h *Handlers) HandleGetTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "tag_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		tag, err := h.service.GetTag(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, tag)
	}
}

// HandleDeleteTag godoc
// @Summary Delete a tag
// @Description Only tags not attached to any item can be deleted.
// @Tags Tags
// @Produce json
// @Param tag_id path int true "Tag ID"
// @Success 200 {object} httpx.MessageResponse
// @Failure 400 {object} apperror.ErrorResponse "Tag still linked"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /tag/{tag_id} [delete]
func (h *Handlers) HandleDeleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.PathID(r, "tag_id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		if err := h.service.DeleteTag(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteMessage(w, http.StatusOK, "Tag deleted.")
	}
}

// --- links ---

// HandleLinkTag godoc
// @Summary Attach a tag to an item
// @Description Attaching an already attached tag is a no-op.
// @Tags Tags
// @Produce json
// @Param item_id path int true "Item ID"
// @Param tag_id path int true "Tag ID"
// @Success 201 {object} catalog.TagDetail
// @Failure 400 {object} apperror.ErrorResponse "Different stores"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /item/{item_id}/tag/{tag_id} [post]
func (h *Handlers) HandleLinkTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, tagID, ok := linkIDs(w, r)
		if !ok {
			return
		}
		tag, err := h.service.LinkTagToItem(r.Context(), itemID, tagID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, tag)
	}
}

// HandleUnlinkTag godoc
// @Summary Detach a tag from an item
// @Tags Tags
// @Produce json
// @Param item_id path int true "Item ID"
// @Param tag_id path int true "Tag ID"
// @Success 200 {object} catalog.TagItemResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /item/{item_id}/tag/{tag_id} [delete]
func (h *Handlers) HandleUnlinkTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, tagID, ok := linkIDs(w, r)
		if !ok {
			return
		}
		resp, err := h.service.UnlinkTagFromItem(r.Context(), itemID, tagID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

func linkIDs(w http.ResponseWriter, r *http.Request) (itemID, tagID int64, ok bool) {
	itemID, err := httpx.PathID(r, "item_id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return 0, 0, false
	}
	tagID, err = httpx.PathID(r, "tag_id")
	if err != nil {
		httpx.WriteError(w, r, err)
		return 0, 0, false
	}
	return itemID, tagID, true
}
