package game

import (
	"fmt"
	"math"
	"time"

	"github.com/iburimskiy/particle-mirror/internal/config"
)

// inButton reports whether (x, y) is over the enable-orientation button.
func inButton(x, y int) bool {
	return x >= config.ButtonX && x <= config.ButtonX+config.ButtonWidth &&
		y >= config.ButtonY && y <= config.ButtonY+config.ButtonHeight
}

func distance(x0, y0, x1, y1 int) float64 {
	return math.Hypot(float64(x1-x0), float64(y1-y0))
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
