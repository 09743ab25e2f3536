package domain

// Style is one entry in the fixed artistic style catalog. The set is loaded
// once at startup and read-only afterwards; it is not user-mutable.
type Style struct {
	Name          string
	Title         string
	Description   string
	ReferencePath string
}
