package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/items-api/internal/items"
	"go.uber.org/zap"
)

// ItemHandler handles item CRUD operations.
type ItemHandler struct {
	service *items.Service
	logger  *zap.Logger
}

// NewItemHandler creates a new item handler.
func NewItemHandler(service *items.Service, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ItemHandler) CreateItem(ctx context.Context, req *CreateItemRequest) (*CreateItemResponse, error) {
	item, err := h.service.Create(ctx, items.CreateItem{
		Title:       req.Body.Title,
		Description: req.Body.Description,
		Price:       req.Body.Price,
	})
	if err != nil {
		h.logger.Error("failed to create item", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to create item")
	}

	return &CreateItemResponse{
		Status: http.StatusCreated,
		Body:   toItemBody(item),
	}, nil
}

func (h *ItemHandler) GetItem(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid item id")
	}

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, items.ErrNotFound) {
			return nil, huma.Error404NotFound("item not found")
		}

		h.logger.Error("failed to get item", zap.String("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get item")
	}

	return &GetItemResponse{Body: toItemBody(item)}, nil
}

func (h *ItemHandler) ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error) {
	listed, err := h.service.List(ctx, items.ListFilter{
		Offset: req.Offset,
		Limit:  req.Limit,
	})
	if err != nil {
		h.logger.Error("failed to list items", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list items")
	}

	total, err := h.service.Count(ctx)
	if err != nil {
		h.logger.Error("failed to count items", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to list items")
	}

	resp := &ListItemsResponse{}
	resp.Body.Items = make([]ItemBody, 0, len(listed))
	resp.Body.Total = total

	for _, item := range listed {
		resp.Body.Items = append(resp.Body.Items, toItemBody(item))
	}

	return resp, nil
}

func (h *ItemHandler) UpdateItem(ctx context.Context, req *UpdateItemRequest) (*UpdateItemResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid item id")
	}

	item, err := h.service.Update(ctx, id, items.UpdateItem{
		Title:       req.Body.Title,
		Description: req.Body.Description,
		Price:       req.Body.Price,
	})
	if err != nil {
		if errors.Is(err, items.ErrNotFound) {
			return nil, huma.Error404NotFound("item not found")
		}

		h.logger.Error("failed to update item", zap.String("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to update item")
	}

	return &UpdateItemResponse{Body: toItemBody(item)}, nil
}

func (h *ItemHandler) DeleteItem(ctx context.Context, req *DeleteItemRequest) (*DeleteItemResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid item id")
	}

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, items.ErrNotFound) {
			return nil, huma.Error404NotFound("item not found")
		}

		h.logger.Error("failed to delete item", zap.String("id", req.ID), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to delete item")
	}

	return &DeleteItemResponse{Status: http.StatusNoContent}, nil
}

func toItemBody(item *items.Item) ItemBody {
	return ItemBody{
		ID:          item.ID.String(),
		Title:       item.Title,
		Description: item.Description,
		Price:       item.Price,
		ImagePath:   item.ImagePath,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
