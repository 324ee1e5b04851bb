package model

// Mode selects which business feature set the widget shows.
type Mode string

const (
	ModeClinic     Mode = "clinic"
	ModeGlass      Mode = "glass"
	ModeCountertop Mode = "countertop"
)

// Modes lists every mode in tab order.
var Modes = []Mode{ModeClinic, ModeGlass, ModeCountertop}

// DefaultMode is used when nothing valid is persisted.
const DefaultMode = ModeGlass

// ParseMode returns the mode named by s, or DefaultMode and false.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if string(m) == s {
			return m, true
		}
	}
	return DefaultMode, false
}

// Title is the tab label.
func (m Mode) Title() string {
	switch m {
	case ModeClinic:
		return "Clinic"
	case ModeCountertop:
		return "Countertops"
	default:
		return "Glass Structures"
	}
}
