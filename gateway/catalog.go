package gateway

import (
	"context"
	"fmt"

	"github.com/AKM-dv/aafa-partner/models"
)

type categoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

type servicesResponse struct {
	Services   []models.CatalogService `json:"services"`
	Categories []models.CatalogService `json:"categories"`
}

// ListCategories returns the service catalogue's top-level categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out categoriesResponse
	if err := c.getJSON(ctx, "/admin/categories", &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// ListServices returns catalogue services, optionally scoped to a category.
// Some backend versions return the rows under "categories" with services
// nested per row; callers should flatten via the Services field.
func (c *Client) ListServices(ctx context.Context, categoryID int64) ([]models.CatalogService, error) {
	path := "/admin/services"
	if categoryID > 0 {
		path = fmt.Sprintf("/admin/services?category_id=%d", categoryID)
	}
	var out servicesResponse
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	if len(out.Services) > 0 {
		return out.Services, nil
	}
	return out.Categories, nil
}
