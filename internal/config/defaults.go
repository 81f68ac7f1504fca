package config

// Built-in tonescale catalog. Pitches are absolute MIDI notes around
// middle C; the engine never adds a base offset.
func defaultScales() []ToneScale {
	return []ToneScale{
		{Name: "pentatonicMajor", Mode: "random", Pitches: []int{60, 62, 64, 67, 69, 72}},
		{Name: "pentatonicMinor", Mode: "random", Pitches: []int{60, 63, 65, 67, 70, 72}},
		{Name: "major", Mode: "team", Pitches: []int{60, 62, 64, 65, 67, 69, 71}},
		{Name: "minorNatural", Mode: "team", Pitches: []int{60, 62, 63, 65, 67, 68, 70}},
		{Name: "minorHarmonic", Mode: "canon", Pitches: []int{60, 62, 63, 65, 67, 68, 71}},
		{Name: "minorMelodic", Mode: "canon", Pitches: []int{60, 62, 63, 65, 67, 69, 71}},
		{Name: "blues", Mode: "random", Pitches: []int{60, 63, 65, 66, 67, 70, 72}},
		{Name: "wholeTone", Mode: "team", Pitches: []int{60, 62, 64, 66, 68, 70, 72}},
		{Name: "chromatic", Mode: "canon", Pitches: []int{60, 61, 62, 63, 64, 65, 66, 67, 68, 69, 70, 71}},
	}
}

// Built-in color gradients. Positions are wave heights (0-255); colors
// between breakpoints are interpolated linearly.
func defaultGradients() map[string][]GradientStop {
	return map[string][]GradientStop{
		"darkBlue": {
			{Pos: 0, R: 0, G: 0, B: 0},
			{Pos: 32, R: 0, G: 0, B: 70},
			{Pos: 128, R: 20, G: 57, B: 255},
			{Pos: 255, R: 255, G: 255, B: 255},
		},
		"purpleWhite": {
			{Pos: 0, R: 0, G: 0, B: 0},
			{Pos: 8, R: 128, G: 64, B: 64},
			{Pos: 16, R: 255, G: 222, B: 222},
			{Pos: 120, R: 255, G: 255, B: 255},
			{Pos: 255, R: 255, G: 255, B: 255},
		},
		"yellowRed": {
			{Pos: 0, R: 0, G: 0, B: 0},
			{Pos: 8, R: 20, G: 0, B: 0},
			{Pos: 16, R: 140, G: 100, B: 0},
			{Pos: 255, R: 255, G: 255, B: 255},
		},
		"darkGreen": {
			{Pos: 0, R: 0, G: 0, B: 0},
			{Pos: 32, R: 0, G: 70, B: 0},
			{Pos: 128, R: 20, G: 255, B: 40},
			{Pos: 255, R: 255, G: 255, B: 255},
		},
		"yellowWhite": {
			{Pos: 0, R: 0, G: 0, B: 0},
			{Pos: 8, R: 80, G: 80, B: 20},
			{Pos: 16, R: 180, G: 150, B: 40},
			{Pos: 120, R: 255, G: 255, B: 255},
			{Pos: 255, R: 255, G: 255, B: 255},
		},
		"darkRed": {
			{Pos: 0, R: 0, G: 0, B: 0},
			{Pos: 32, R: 70, G: 0, B: 0},
			{Pos: 128, R: 255, G: 57, B: 80},
			{Pos: 255, R: 255, G: 255, B: 255},
		},
		"darkPurple": {
			{Pos: 0, R: 0, G: 0, B: 0},
			{Pos: 32, R: 70, G: 0, B: 70},
			{Pos: 128, R: 255, G: 57, B: 255},
			{Pos: 255, R: 255, G: 255, B: 255},
		},
		"blueWhite": {
			{Pos: 0, R: 0, G: 0, B: 0},
			{Pos: 8, R: 128, G: 64, B: 64},
			{Pos: 16, R: 220, G: 200, B: 255},
			{Pos: 120, R: 255, G: 255, B: 255},
			{Pos: 255, R: 255, G: 255, B: 255},
		},
		"darkOrange": {
			{Pos: 0, R: 0, G: 0, B: 0},
			{Pos: 32, R: 120, G: 60, B: 0},
			{Pos: 128, R: 255, G: 120, B: 20},
			{Pos: 255, R: 255, G: 255, B: 255},
		},
	}
}
