package tray

import _ "embed"

var (
	//go:embed icons/light.png
	lightIcon []byte

	//go:embed icons/dark.png
	darkIcon []byte
)

// Icon returns the icon for the selected theme, converted to the format the
// platform tray expects.
func Icon(dark bool) []byte {
	if dark {
		return platformIcon(darkIcon)
	}
	return platformIcon(lightIcon)
}
