package handlers

import "time"

// ItemBody is the item representation returned by the API.
type ItemBody struct {
	ID          string    `doc:"Item ID"                      json:"id"`
	Title       string    `doc:"Item title"                   json:"title"`
	Description string    `doc:"Item description"             json:"description,omitempty"`
	Price       float64   `doc:"Item price"                   json:"price"`
	ImagePath   string    `doc:"Storage path of the item image" json:"imagePath,omitempty"`
	CreatedAt   time.Time `doc:"Creation timestamp"           json:"createdAt"`
	UpdatedAt   time.Time `doc:"Last update timestamp"        json:"updatedAt"`
}

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	Body struct {
		Title       string  `doc:"Item title"       example:"Widget"             json:"title"       maxLength:"255" minLength:"1"`
		Description string  `doc:"Item description" example:"A very fine widget" json:"description,omitempty"`
		Price       float64 `doc:"Item price"       example:"9.99"               json:"price"       minimum:"0"`
	}
}

// CreateItemResponse is the response for a created item.
type CreateItemResponse struct {
	Status int
	Body   ItemBody
}

// GetItemRequest identifies an item by ID.
type GetItemRequest struct {
	ID string `doc:"Item ID" format:"uuid" path:"id"`
}

// GetItemResponse is the response for a single item.
type GetItemResponse struct {
	Body ItemBody
}

// ListItemsRequest holds pagination for listing items.
type ListItemsRequest struct {
	Offset int `default:"0"   doc:"Number of items to skip" minimum:"0" query:"offset"`
	Limit  int `default:"100" doc:"Page size"               maximum:"500" minimum:"1" query:"limit"`
}

// ListItemsResponse is a page of items with the total count.
type ListItemsResponse struct {
	Body struct {
		Items []ItemBody `json:"items"`
		Total int64      `doc:"Total number of items" json:"total"`
	}
}

// UpdateItemRequest is a partial update of an item.
type UpdateItemRequest struct {
	ID   string `doc:"Item ID" format:"uuid" path:"id"`
	Body struct {
		Title       *string  `doc:"Item title"       json:"title,omitempty"       maxLength:"255" minLength:"1"`
		Description *string  `doc:"Item description" json:"description,omitempty"`
		Price       *float64 `doc:"Item price"       json:"price,omitempty"       minimum:"0"`
	}
}

// UpdateItemResponse is the response for an updated item.
type UpdateItemResponse struct {
	Body ItemBody
}

// DeleteItemRequest identifies the item to delete.
type DeleteItemRequest struct {
	ID string `doc:"Item ID" format:"uuid" path:"id"`
}

// DeleteItemResponse is an empty 204 response.
type DeleteItemResponse struct {
	Status int
}
