package cache

// Keyer builds cache keys. Implementations must be deterministic: equal
// inputs always yield equal keys.
type Keyer interface {
	// ValidationKey keys a validation result for a diagram.
	ValidationKey(diagramHash string) string

	// LayoutKey keys a computed layout for a diagram and layout options.
	LayoutKey(diagramHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts lists the options that change a computed layout.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	ForceScale float64 `json:"force_scale"`
	FontSize   float64 `json:"font_size"`
	ShowLabels bool    `json:"show_labels"`
}

// keyVersion is bumped whenever the layout of cached values changes.
const keyVersion = "v1"

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ValidationKey returns "validation:<sha256>".
func (DefaultKeyer) ValidationKey(diagramHash string) string {
	return hashKey("validation", keyVersion, diagramHash)
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", keyVersion, diagramHash, opts)
}

var _ Keyer = DefaultKeyer{}
