package diagram

import (
	"fmt"

	"github.com/matzehuels/blockgen/pkg/errors"
)

// Category is one of the five fixed device subsystems.
type Category uint8

// Categories in their fixed default order.
const (
	Power Category = iota
	Inputs
	Control
	Outputs
	Other

	// NumCategories is the size of every category-indexed table.
	NumCategories = int(Other) + 1
)

// =============================================================================
// Category Tables
// =============================================================================

var categoryNames = [NumCategories]string{
	Power:   "power",
	Inputs:  "inputs",
	Control: "control",
	Outputs: "outputs",
	Other:   "other",
}

var categoryTitles = [NumCategories]string{
	Power:   "⚡ Power Supply",
	Inputs:  "📥 Inputs Block",
	Control: "🧠 Control & Processing",
	Outputs: "📤 Outputs Block",
	Other:   "🔌 Other Peripherals",
}

// Style holds the fixed colors of a category.
type Style struct {
	Fill   string // Background color of the category block
	Border string // Outline color of the category block
}

var categoryStyles = [NumCategories]Style{
	Power:   {Fill: "#FFE5B4", Border: "#FF8C00"},
	Inputs:  {Fill: "#B4E5FF", Border: "#0088FF"},
	Control: {Fill: "#D4FFB4", Border: "#00AA00"},
	Outputs: {Fill: "#FFB4D4", Border: "#FF1493"},
	Other:   {Fill: "#E5D4FF", Border: "#9932CC"},
}

// fixedPositions places the category blocks in a single row.
var fixedPositions = [NumCategories]Position{
	Power:   {X: 50, Y: 50},
	Inputs:  {X: 250, Y: 50},
	Control: {X: 450, Y: 50},
	Outputs: {X: 700, Y: 50},
	Other:   {X: 950, Y: 50},
}

// =============================================================================
// Category Methods
// =============================================================================

// Categories returns every category in fixed order.
func Categories() [NumCategories]Category {
	return [NumCategories]Category{Power, Inputs, Control, Outputs, Other}
}

// Valid reports whether c is one of the five categories.
func (c Category) Valid() bool { return int(c) < NumCategories }

// String returns the lowercase category name, which is also the fixed node ID.
func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// Title returns the display label of the category's fixed node.
func (c Category) Title() string {
	if !c.Valid() {
		return c.String()
	}
	return categoryTitles[c]
}

// Style returns the fixed colors of the category.
func (c Category) Style() Style {
	if !c.Valid() {
		return Style{}
	}
	return categoryStyles[c]
}

// MarshalText encodes the category as its lowercase name.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidDiagram, "unknown category %d", uint8(c))
	}
	return []byte(categoryNames[c]), nil
}

// UnmarshalText decodes a lowercase category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory converts a category name to a [Category].
// Names are matched exactly; "Power" is not a category.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if n == name {
			return Category(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidDiagram, "unknown category %q", name)
}

// Ptr returns a pointer to a copy of c, for use as a node's category tag.
func (c Category) Ptr() *Category { return &c }
