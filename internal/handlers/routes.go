package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all item routes.
func RegisterRoutes(api huma.API, itemHandler *ItemHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-item",
		Method:      http.MethodPost,
		Path:        "/items",
		Summary:     "Create item",
		Tags:        []string{"Items"},
	}, itemHandler.CreateItem)

	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/items",
		Summary:     "List items",
		Description: "Returns a page of items. Responses are cached; recent writes may take effect with a short delay.",
		Tags:        []string{"Items"},
	}, itemHandler.ListItems)

	huma.Register(api, huma.Operation{
		OperationID: "get-item",
		Method:      http.MethodGet,
		Path:        "/items/{id}",
		Summary:     "Get item",
		Tags:        []string{"Items"},
	}, itemHandler.GetItem)

	huma.Register(api, huma.Operation{
		OperationID: "update-item",
		Method:      http.MethodPatch,
		Path:        "/items/{id}",
		Summary:     "Update item",
		Tags:        []string{"Items"},
	}, itemHandler.UpdateItem)

	huma.Register(api, huma.Operation{
		OperationID: "delete-item",
		Method:      http.MethodDelete,
		Path:        "/items/{id}",
		Summary:     "Delete item",
		Tags:        []string{"Items"},
	}, itemHandler.DeleteItem)
}
