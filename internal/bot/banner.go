package bot

import (
	"fmt"
	"strings"

	"github.com/mazznoer/colorgrad"
)

const Version = "1.0.0"

// GetBanner returns a colorized ASCII art banner
func GetBanner(version string) string {
	banner := `
 _          _       _           _
| |__   ___| |_ __ | |__   ___ | |_
| '_ \ / _ \ | '_ \| '_ \ / _ \| __|
| | | |  __/ | |_) | |_) | (_) | |_
|_| |_|\___|_| .__/|_.__/ \___/ \__|
             |_|   ask  and  ye  shall  receive  [v` + version + `]
`
	grad, _ := colorgrad.NewGradient().
		HtmlColors("#0f9b0fff", "#fdfdfdff").
		Build()

	lines := strings.Split(banner, "\n")

	maxLen := 0
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}

	colors := grad.Colors(uint(maxLen))
	var coloredBanner strings.Builder

	for _, line := range lines {
		for i, ch := range []rune(line) {
			r, g, b, _ := colors[i].RGBA255()
			fmt.Fprintf(&coloredBanner, "\x1b[38;2;%d;%d;%dm%c", r, g, b, ch)
		}
		coloredBanner.WriteString("\x1b[0m\n")
	}

	return coloredBanner.String()
}
