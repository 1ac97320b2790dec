package models

// Category is one entry of the services catalogue's top level.
type Category struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// CatalogService is one bookable service of the catalogue. Prices carry both
// the original and discounted figures; the discounted one wins when present.
type CatalogService struct {
	ID              int64      `json:"id"`
	CategoryID      int64      `json:"category_id"`
	CategoryName    string     `json:"category_name,omitempty"`
	Title           string     `json:"title"`
	PriceOriginal   *FlexFloat `json:"price_original"`
	PriceDiscounted *FlexFloat `json:"price_discounted"`

	// Some catalogue payloads nest services under their category rows.
	Services []CatalogService `json:"services,omitempty"`
}

// EffectivePrice returns the discounted price when set, else the original.
func (s CatalogService) EffectivePrice() float64 {
	if s.PriceDiscounted != nil && s.PriceDiscounted.Float() > 0 {
		return s.PriceDiscounted.Float()
	}
	if s.PriceOriginal != nil && s.PriceOriginal.Float() > 0 {
		return s.PriceOriginal.Float()
	}
	return 0
}

// DisplayTitle resolves the category label across payload aliases.
func (c Category) DisplayTitle() string {
	return firstNonEmpty(c.Title, c.Name)
}
