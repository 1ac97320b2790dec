package orders

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/AKM-dv/aafa-partner/gateway"
	"github.com/AKM-dv/aafa-partner/models"
	"github.com/AKM-dv/aafa-partner/utils"
)

// priceCache resolves amounts and labels for bookings whose payload omits
// them. Loaded once at reconciler start; a failed load leaves it empty and
// every lookup falls through to the placeholder.
type priceCache struct {
	mu           sync.RWMutex
	priceByID    map[int64]float64
	priceByTitle map[string]float64
	titleByID    map[int64]string
	categoryByID map[int64]string
}

func newPriceCache() priceCache {
	return priceCache{
		priceByID:    make(map[int64]float64),
		priceByTitle: make(map[string]float64),
		titleByID:    make(map[int64]string),
		categoryByID: make(map[int64]string),
	}
}

func normalizeTitle(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

// load walks the catalogue category by category. Partial failures are logged
// and skipped; whatever loaded still serves lookups.
func (c *priceCache) load(ctx context.Context, gw *gateway.Client) {
	categories, err := gw.ListCategories(ctx)
	if err != nil {
		utils.GetLogger().Warn("catalogue load failed", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cat := range categories {
		c.categoryByID[cat.ID] = cat.DisplayTitle()
	}
	for _, cat := range categories {
		services, err := gw.ListServices(ctx, cat.ID)
		if err != nil {
			utils.GetLogger().Warn("catalogue services load failed",
				zap.Int64("categoryId", cat.ID), zap.Error(err))
			continue
		}
		for _, svc := range services {
			c.indexLocked(svc, cat.ID)
		}
	}
}

func (c *priceCache) indexLocked(svc models.CatalogService, categoryID int64) {
	if price := svc.EffectivePrice(); price > 0 && svc.ID != 0 {
		c.priceByID[svc.ID] = price
		if svc.Title != "" {
			c.priceByTitle[normalizeTitle(svc.Title)] = price
		}
	}
	if svc.ID != 0 && svc.Title != "" {
		c.titleByID[svc.ID] = svc.Title
	}
	if svc.CategoryName != "" && svc.CategoryID != 0 {
		c.categoryByID[svc.CategoryID] = svc.CategoryName
	}
	for _, nested := range svc.Services {
		c.indexLocked(nested, categoryID)
	}
}

// resolvePrice applies the lookup chain: service id, then normalized title.
func (c *priceCache) resolvePrice(serviceID int64, title string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.priceByID[serviceID]; ok {
		return p
	}
	if p, ok := c.priceByTitle[normalizeTitle(title)]; ok {
		return p
	}
	return 0
}

func (c *priceCache) serviceTitle(serviceID int64) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.titleByID[serviceID]
}

func (c *priceCache) categoryName(categoryID int64) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.categoryByID[categoryID]
}
