package theme

// Palette carries chart colors (CSS, for the HTML document) and terminal
// colors (hex, for lipgloss).
type Palette struct {
	Name string

	// chart
	Grid        string
	Text        string
	Legend      string
	TooltipBg   string
	PointBorder string
	Background  string

	// terminal
	Foreground string
	Muted      string
	Border     string
	Accent     string
	Positive   string
	Negative   string
	Warning    string
	TermGrid   string
}

var (
	darkPalette = Palette{
		Name:        "dark",
		Grid:        "rgba(255,255,255,0.1)",
		Text:        "#9ca3af",
		Legend:      "#e5e7eb",
		TooltipBg:   "#1f2937",
		PointBorder: "#111827",
		Background:  "#111827",

		Foreground: "#e5e7eb",
		Muted:      "#9ca3af",
		Border:     "#374151",
		Accent:     "#818cf8",
		Positive:   "#34d399",
		Negative:   "#f87171",
		Warning:    "#fbbf24",
		TermGrid:   "#4b5563",
	}

	lightPalette = Palette{
		Name:        "light",
		Grid:        "rgba(0,0,0,0.05)",
		Text:        "#6b7280",
		Legend:      "#374151",
		TooltipBg:   "#ffffff",
		PointBorder: "#ffffff",
		Background:  "#ffffff",

		Foreground: "#111827",
		Muted:      "#6b7280",
		Border:     "#d1d5db",
		Accent:     "#4f46e5",
		Positive:   "#059669",
		Negative:   "#dc2626",
		Warning:    "#d97706",
		TermGrid:   "#d1d5db",
	}
)

// PaletteFor returns the dark or light palette.
func PaletteFor(dark bool) Palette {
	if dark {
		return darkPalette
	}
	return lightPalette
}
