package model

// CategoryKey identifies a use-case cluster (e.g. "hobby", "survey")
type CategoryKey string

const (
	CategoryHobby      CategoryKey = "hobby"
	CategoryCreative   CategoryKey = "creative"
	CategoryInspection CategoryKey = "inspection"
	CategorySurvey     CategoryKey = "survey"
	CategoryAgri       CategoryKey = "agri"
	CategoryLogi       CategoryKey = "logi"
	CategoryDisaster   CategoryKey = "disaster"
	CategoryAuto       CategoryKey = "auto"
	CategoryDev        CategoryKey = "dev"
)

// DefaultCategoryPriority is the tie-break order used when a catalog does not declare one.
var DefaultCategoryPriority = []CategoryKey{
	CategoryHobby,
	CategoryCreative,
	CategoryInspection,
	CategorySurvey,
	CategoryAgri,
	CategoryLogi,
	CategoryDisaster,
	CategoryAuto,
	CategoryDev,
}

// ProductKind distinguishes airframes from mountable payloads
type ProductKind string

const (
	KindAircraft ProductKind = "aircraft"
	KindPayload  ProductKind = "payload"
)

// WeightClass is derived from a product's takeoff mass
type WeightClass string

const (
	WeightMicro    WeightClass = "micro"
	WeightStandard WeightClass = "standard"
)

// MicroWeightThresholdGrams is the mass below which a product counts as micro.
const MicroWeightThresholdGrams = 100

// PriceRange is an inclusive price window in the catalog currency
type PriceRange struct {
	Min int `json:"min" bson:"min" yaml:"min"`
	Max int `json:"max" bson:"max" yaml:"max"`
}

// ProductLinks are outbound links shown next to a product
type ProductLinks struct {
	Learn   string `json:"learn,omitempty" bson:"learn,omitempty" yaml:"learn,omitempty"`
	Consult string `json:"consult,omitempty" bson:"consult,omitempty" yaml:"consult,omitempty"`
	Demo    string `json:"demo,omitempty" bson:"demo,omitempty" yaml:"demo,omitempty"`
}

// Product is a single catalog entry (aircraft or payload)
type Product struct {
	ID           string            `json:"id" bson:"id" yaml:"id"`
	Name         string            `json:"name" bson:"name" yaml:"name"`
	CategoryTags []CategoryKey     `json:"categoryTags" bson:"categoryTags" yaml:"categoryTags"`
	Kind         ProductKind       `json:"kind" bson:"kind" yaml:"kind"`
	Price        PriceRange        `json:"price" bson:"price" yaml:"price"`
	WeightGrams  float64           `json:"weightGrams,omitempty" bson:"weightGrams,omitempty" yaml:"weightGrams,omitempty"`
	Bullets      []string          `json:"bullets" bson:"bullets" yaml:"bullets"`
	Specs        map[string]string `json:"specs,omitempty" bson:"specs,omitempty" yaml:"specs,omitempty"`
	Notes        string            `json:"notes,omitempty" bson:"notes,omitempty" yaml:"notes,omitempty"`
	Status       string            `json:"status,omitempty" bson:"status,omitempty" yaml:"status,omitempty"`
	Images       []string          `json:"images" bson:"images" yaml:"images"`
	Links        ProductLinks      `json:"links" bson:"links" yaml:"links"`
}

// WeightClass reports micro for products lighter than the threshold.
// Products without a recorded weight are treated as standard.
func (p *Product) WeightClass() WeightClass {
	if p.WeightGrams > 0 && p.WeightGrams < MicroWeightThresholdGrams {
		return WeightMicro
	}
	return WeightStandard
}

// IsMicro is shorthand for WeightClass() == WeightMicro
func (p *Product) IsMicro() bool {
	return p.WeightClass() == WeightMicro
}

// Category is a use-case cluster with its best-fit product and alternates
type Category struct {
	Label          string   `json:"label" bson:"label" yaml:"label"`
	Summary        string   `json:"summary,omitempty" bson:"summary,omitempty" yaml:"summary,omitempty"`
	PrimaryModelID string   `json:"primaryModelId" bson:"primaryModelId" yaml:"primaryModelId"`
	Alts           []string `json:"alts" bson:"alts" yaml:"alts"`
}

// Catalog is the read-only product reference data
type Catalog struct {
	Version    string                   `json:"version" bson:"_id" yaml:"version"`
	Currency   string                   `json:"currency" bson:"currency" yaml:"currency"`
	Categories map[CategoryKey]Category `json:"categories" bson:"categories" yaml:"categories"`
	Products   []Product                `json:"products" bson:"products" yaml:"products"`
	Priority   []CategoryKey            `json:"priority,omitempty" bson:"priority,omitempty" yaml:"priority,omitempty"`
}

// CategoryPriority returns the declared tie-break order, or the default one.
// Categories the order leaves out are appended by key so none drops out of
// scoring.
func (c *Catalog) CategoryPriority() []CategoryKey {
	base := c.Priority
	if len(base) == 0 {
		base = DefaultCategoryPriority
	}
	out := make([]CategoryKey, 0, len(base)+len(c.Categories))
	seen := make(map[CategoryKey]bool, len(base))
	for _, key := range base {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	for _, key := range sortedCategoryKeys(c.Categories) {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// Category looks up a category by key
func (c *Catalog) Category(key CategoryKey) (Category, bool) {
	cat, ok := c.Categories[key]
	return cat, ok
}

// Product looks up a product by id
func (c *Catalog) Product(id string) (*Product, bool) {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i], true
		}
	}
	return nil, false
}

// ResolvePrimary returns the category's declared primary product, or nil when
// the category or the product id is unknown.
func (c *Catalog) ResolvePrimary(key CategoryKey) *Product {
	cat, ok := c.Categories[key]
	if !ok {
		return nil
	}
	p, ok := c.Product(cat.PrimaryModelID)
	if !ok {
		return nil
	}
	return p
}

// ResolveAlternatives returns the category's alternates that exist in the
// catalog, in declared order. Dangling ids are skipped.
func (c *Catalog) ResolveAlternatives(key CategoryKey) []Product {
	cat, ok := c.Categories[key]
	if !ok {
		return nil
	}
	alts := make([]Product, 0, len(cat.Alts))
	for _, id := range cat.Alts {
		if p, ok := c.Product(id); ok {
			alts = append(alts, *p)
		}
	}
	return alts
}
