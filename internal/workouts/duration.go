package workouts

import "fmt"

// FormatDuration renders seconds as "1h 5m", "5m 3s" or "42s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	remaining := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, remaining)
	default:
		return fmt.Sprintf("%ds", remaining)
	}
}
