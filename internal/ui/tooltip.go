package ui

import (
	"fyne.io/fyne/v2"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newIconButtonWithTooltip creates an icon-only button with a hover tooltip.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// setButtonState swaps the icon and tooltip of a two-state button such as
// play/pause. It is a no-op when the icon already matches.
func setButtonState(btn *ttwidget.Button, icon fyne.Resource, tooltip string) {
	if btn.Icon == icon {
		return
	}
	btn.SetIcon(icon)
	btn.SetToolTip(tooltip)
}
