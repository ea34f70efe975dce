package tui

// PaneDimensions holds the calculated dimensions of the TUI layout
type PaneDimensions struct {
	// Picker area, the picker box is centered inside it
	PickerWidth  int
	PickerHeight int

	// Bottom bar
	StatusHeight int // Fixed: 1 line
}

// CalculatePaneDimensions computes pane sizes based on terminal dimensions.
// The picker area takes everything above the status bar.
func CalculatePaneDimensions(termWidth, termHeight int) PaneDimensions {
	dims := PaneDimensions{
		StatusHeight: 1,
	}

	dims.PickerWidth = max(termWidth, 0)
	dims.PickerHeight = max(termHeight-dims.StatusHeight, 0)

	return dims
}
