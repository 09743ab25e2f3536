// Package styles hosts the fixed catalog of artistic styles the service
// offers and keeps their reference images available on disk.
package styles

import (
	"github.com/mobrahi/mimicryML/internal/domain"
	"github.com/mobrahi/mimicryML/internal/storage"
)

// catalog is the full set of styles. It never changes at runtime; adding a
// style means adding an entry here and shipping (or synthesizing) its
// reference image.
var catalog = []domain.Style{
	{
		Name:        "vangogh",
		Title:       "Van Gogh - Starry Night",
		Description: "Swirling brushstrokes and vibrant colors",
	},
	{
		Name:        "picasso",
		Title:       "Picasso - Cubism",
		Description: "Geometric shapes and abstract forms",
	},
	{
		Name:        "monet",
		Title:       "Monet - Impressionism",
		Description: "Soft colors and light effects",
	},
	{
		Name:        "kandinsky",
		Title:       "Kandinsky - Abstract",
		Description: "Bold colors and abstract patterns",
	},
}

// Catalog resolves style names against the fixed style set and the store
// holding their reference images.
type Catalog struct {
	store *storage.FileStore
}

// NewCatalog builds a catalog whose reference images live in store.
func NewCatalog(store *storage.FileStore) *Catalog {
	return &Catalog{store: store}
}

// All returns every style with reference paths resolved.
func (c *Catalog) All() []domain.Style {
	out := make([]domain.Style, len(catalog))
	copy(out, catalog)
	for i := range out {
		if path, err := c.store.Path(referenceKey(out[i].Name)); err == nil {
			out[i].ReferencePath = path
		}
	}
	return out
}

// Get looks a style up by name.
func (c *Catalog) Get(name string) (domain.Style, bool) {
	for _, s := range c.All() {
		if s.Name == name {
			return s, true
		}
	}
	return domain.Style{}, false
}

// Names returns the style names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(catalog))
	for i, s := range catalog {
		names[i] = s.Name
	}
	return names
}

func referenceKey(name string) string { return name + ".jpg" }
