package terminal

// Named colors for themes and examples
// Ordered dark-to-light within each hue group
var (
	// --- Achromatic ---
	Black     = RGB{0, 0, 0}
	Gunmetal  = RGB{26, 27, 38}
	DarkSlate = RGB{35, 36, 48}
	DimGray   = RGB{55, 55, 55}
	Gray      = RGB{120, 120, 120}
	Silver    = RGB{180, 180, 180}
	LightGray = RGB{200, 200, 200}
	White     = RGB{255, 255, 255}

	// --- Red / Orange / Yellow ---
	Oxblood     = RGB{100, 20, 20}
	Red         = RGB{255, 0, 0}
	Coral       = RGB{255, 80, 80}
	FlameOrange = RGB{240, 100, 30}
	Orange      = RGB{255, 165, 0}
	Gold        = RGB{255, 215, 0}

	// --- Green / Cyan ---
	ForestGreen = RGB{34, 139, 34}
	MintGreen   = RGB{100, 220, 130}
	Teal        = RGB{0, 139, 139}
	Cyan        = RGB{0, 255, 255}

	// --- Blue / Purple ---
	DeepNavy     = RGB{15, 25, 50}
	SteelBlue    = RGB{60, 100, 180}
	DodgerBlue   = RGB{40, 180, 255}
	DarkViolet   = RGB{120, 40, 180}
	MediumPurple = RGB{170, 100, 210}
	HotMagenta   = RGB{255, 60, 200}
)
