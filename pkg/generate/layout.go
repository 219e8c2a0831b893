package generate

import "github.com/matzehuels/blockgen/pkg/diagram"

// anchors is where each category's cascade of derived nodes starts.
var anchors = [diagram.NumCategories]diagram.Position{
	diagram.Power:   {X: 100, Y: 100},
	diagram.Inputs:  {X: 350, Y: 100},
	diagram.Control: {X: 650, Y: 100},
	diagram.Outputs: {X: 950, Y: 100},
	diagram.Other:   {X: 1250, Y: 100},
}

// Cascade offsets relative to the anchor.
const (
	cascadeOffsetX = -80
	cascadeOffsetY = 180
	cascadeStepX   = 40
	cascadeStepY   = 80
)

// Anchor returns the layout anchor of c.
func Anchor(c diagram.Category) diagram.Position { return anchors[c] }

// Place returns the position of the component with zero-based index k among
// the components of category c. Positions step diagonally down and right;
// overlapping nodes are not separated.
func Place(c diagram.Category, k int) diagram.Position {
	a := anchors[c]
	return diagram.Position{
		X: a.X + cascadeOffsetX + float64(k*cascadeStepX),
		Y: a.Y + cascadeOffsetY + float64(k*cascadeStepY),
	}
}
