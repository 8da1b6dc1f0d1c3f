package playerbar

import (
	"fmt"

	"github.com/llehouerou/airwaves/internal/icons"
)

// RenderVolume renders the volume indicator, "🔊  80%" or the muted icon at 0.
func RenderVolume(volume float64) string {
	pct := int(volume*100 + 0.5)
	icon := icons.Volume()
	if pct == 0 {
		icon = icons.VolumeMute()
	}
	return metaStyle().Render(fmt.Sprintf("%s %3d%%", icon, pct))
}
