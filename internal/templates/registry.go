// Package templates holds the registry of portfolio templates a user can
// select for their published site. Rendering happens client-side; the server
// only validates and stores the selection.
package templates

// Template describes one selectable portfolio design.
type Template struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Thumbnail string `json:"thumbnail"`
}

// DefaultID is the template assigned to new resumes.
const DefaultID = "default"

// registry is ordered for stable listing in the selection UI.
var registry = []Template{
	{ID: "default", Name: "Terminal (Default)", Thumbnail: "https://images.unsplash.com/photo-1614332287897-cdc485fa562d?w=800&q=80"},
	{ID: "modern", Name: "Modern Clean", Thumbnail: "https://images.unsplash.com/photo-1507238691740-187a5b1d37b8?w=800&q=80"},
	{ID: "3d", Name: "3D Interactive", Thumbnail: "https://images.unsplash.com/photo-1633356122544-f134324a6cee?w=800&q=80"},
	{ID: "cyber", Name: "Cyber Neon", Thumbnail: "https://images.unsplash.com/photo-1555680202-c86f0e12f086?w=800&q=80"},
	{ID: "galactic", Name: "Galactic Voyager", Thumbnail: "https://images.unsplash.com/photo-1451187580459-43490279c0fa?w=800&q=80"},
	{ID: "zen", Name: "Zen Minimalist", Thumbnail: "https://images.unsplash.com/photo-1494438639946-1ebd1d20bf85?w=800&q=80"},
	{ID: "sera", Name: "Sera Universe", Thumbnail: "https://images.unsplash.com/photo-1451187580459-43490279c0fa?w=800&q=80"},
	{ID: "antoine", Name: "Antoine Bold", Thumbnail: "https://images.unsplash.com/photo-1550684848-fac1c5b4e853?w=800&q=80"},
}

// All returns the templates in listing order.
func All() []Template {
	out := make([]Template, len(registry))
	copy(out, registry)
	return out
}

// Valid reports whether id names a registered template.
func Valid(id string) bool {
	for _, t := range registry {
		if t.ID == id {
			return true
		}
	}
	return false
}
