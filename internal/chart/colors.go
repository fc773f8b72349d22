package chart

import "strings"

// Colors is the stroke and fill of one asset's series.
type Colors struct {
	Border     string
	Background string
}

var assetColors = map[string]Colors{
	"BTC":  {Border: "#f7931a", Background: "rgba(247,147,26,0.1)"},
	"ETH":  {Border: "#627eea", Background: "rgba(98,126,234,0.1)"},
	"ADA":  {Border: "#0033ad", Background: "rgba(0,51,173,0.1)"},
	"SOL":  {Border: "#9945ff", Background: "rgba(153,69,255,0.1)"},
	"DOT":  {Border: "#e6007a", Background: "rgba(230,0,122,0.1)"},
	"AVAX": {Border: "#e84142", Background: "rgba(232,65,66,0.1)"},
	"LINK": {Border: "#375bd2", Background: "rgba(55,91,210,0.1)"},
	"LTC":  {Border: "#bfbbbb", Background: "rgba(191,187,187,0.1)"},
}

// ColorFor returns the colors of asset. Assets without their own colors use
// BTC's.
func ColorFor(asset string) Colors {
	if c, ok := assetColors[strings.ToUpper(asset)]; ok {
		return c
	}
	return assetColors["BTC"]
}
