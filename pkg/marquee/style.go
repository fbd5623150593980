package marquee

import (
	"strconv"
	"strings"

	"marquee14/pkg/html"
)

// StyleHost applies the presentational options to the host element.
// display is the host's computed display before styling. Dimension values
// that are bare numbers get a px unit; anything else is written through
// unchanged and left for the style engine to interpret.
func StyleHost(host *html.Node, cfg Configuration, display string) {
	if cfg.BgColor != "" {
		host.SetStyle("background-color", cfg.BgColor)
	}
	if cfg.Height != "" {
		host.SetStyle("height", withPixels(cfg.Height))
	}
	if cfg.HSpace != "" {
		host.SetStyle("margin-left", cfg.HSpace+"px")
		host.SetStyle("margin-right", cfg.HSpace+"px")
	}
	if cfg.VSpace != "" {
		host.SetStyle("margin-top", cfg.VSpace+"px")
		host.SetStyle("margin-bottom", cfg.VSpace+"px")
	}
	if cfg.Width != "" {
		host.SetStyle("width", withPixels(cfg.Width))
	}
	if display == "inline" {
		host.SetStyle("display", "block")
	}
	host.SetStyle("overflow", "hidden")
	host.SetStyle("white-space", "nowrap")
}

func withPixels(v string) string {
	if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
		return strings.TrimSpace(v) + "px"
	}
	return v
}
