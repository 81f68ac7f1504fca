package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Geometry describes the LED matrix layout. Each player owns a column of
// PlayerWidth x Height pixels; player columns are stacked along x.
type Geometry struct {
	Players     int `yaml:"players"`
	PlayerWidth int `yaml:"playerWidth"`
	Height      int `yaml:"height"`
	PlayerMaxY  int `yaml:"playerMaxY"` // highest y a trigger impulse may reach
	BigWaveY    int `yaml:"bigWaveY"`   // vertical center of the big-wave cross
}

// Width is the total horizontal extent of the matrix.
func (g Geometry) Width() int { return g.Players * g.PlayerWidth }

// Timings holds every polled timeout of the engine, in milliseconds.
// All of them are evaluated as "elapsed since a stored timestamp > K",
// re-checked once per tick.
type Timings struct {
	TickMs             int `yaml:"tickMs"`
	CoincidenceMs      int `yaml:"coincidenceMs"`      // max delta between two triggers counted as simultaneous
	CoincidenceStaleMs int `yaml:"coincidenceStaleMs"` // trigger timestamps older than this never match
	OverrideActiveMs   int `yaml:"overrideActiveMs"`   // how long a serial override byte wins over the physical pin
	InactivityMs       int `yaml:"inactivityMs"`       // idle animation starts after this much silence
	BigWaveEnvelopeMs  int `yaml:"bigWaveEnvelopeMs"`  // duration of the cross-shaped envelope
	BigWaveNoteMs      int `yaml:"bigWaveNoteMs"`      // fixed duration of the coordination note
	ModeDebounceMs     int `yaml:"modeDebounceMs"`     // minimum interval between mode changes
	PreviewStepMs      int `yaml:"previewStepMs"`      // interval of the auto-preview walk
	IdleStepMs         int `yaml:"idleStepMs"`         // interval of idle animation steps
}

// MIDI holds channel and device-selection settings.
// Channels are 1-based as on the wire: player channels are playerId+1,
// one channel is reserved for big-wave coordination notes and one for
// idle animation / scale preview notes.
type MIDI struct {
	Velocity         int      `yaml:"velocity"`
	BigWaveChannel   int      `yaml:"bigWaveChannel"`
	IdleChannel      int      `yaml:"idleChannel"`
	ModeController   int      `yaml:"modeController"` // CC number announcing mode changes
	PreferredOutputs []string `yaml:"preferredOutputs"`
	ExcludedOutputs  []string `yaml:"excludedOutputs"`
}

// Dynamics is a (speed, damping) pair for one wave layer state.
type Dynamics struct {
	Speed   float32 `yaml:"speed"`
	Damping float32 `yaml:"damping"`
}

// LayerDynamics groups the dynamics profiles the engine switches between:
// sustain while a trigger is held, release after it, a softer profile for
// the idle animation, and the slow big-wave layers.
type LayerDynamics struct {
	LowerSustain Dynamics `yaml:"lowerSustain"`
	UpperSustain Dynamics `yaml:"upperSustain"`
	LowerRelease Dynamics `yaml:"lowerRelease"`
	UpperRelease Dynamics `yaml:"upperRelease"`
	LowerIdle    Dynamics `yaml:"lowerIdle"`
	UpperIdle    Dynamics `yaml:"upperIdle"`
	BigLower     Dynamics `yaml:"bigLower"`
	BigUpper     Dynamics `yaml:"bigUpper"`
}

// Pins maps logical inputs to sampling pins of the InputSource.
type Pins struct {
	Analog     []int `yaml:"analog"`   // one per player, joystick/poti y input
	Trigger1   []int `yaml:"trigger1"` // one per player
	Trigger2   []int `yaml:"trigger2"` // one per player
	ModeButton int   `yaml:"modeButton"`
	Brightness int   `yaml:"brightness"`
}

// ToneScale is one catalog entry: a named, ordered list of absolute MIDI
// pitches plus the playback mode it is played in.
type ToneScale struct {
	Name    string `yaml:"name"`
	Mode    string `yaml:"mode"` // random | team | canon
	Pitches []int  `yaml:"pitches"`
}

// GradientStop is one breakpoint of a color gradient: wave heights around
// Pos (0-255) map to the given color.
type GradientStop struct {
	Pos uint8 `yaml:"pos"`
	R   uint8 `yaml:"r"`
	G   uint8 `yaml:"g"`
	B   uint8 `yaml:"b"`
}

// PlayerPalette names the gradients used for one player's two layers.
type PlayerPalette struct {
	Lower string `yaml:"lower"`
	Upper string `yaml:"upper"`
}

type Config struct {
	Geometry  Geometry                  `yaml:"geometry"`
	Timings   Timings                   `yaml:"timings"`
	MIDI      MIDI                      `yaml:"midi"`
	Dynamics  LayerDynamics             `yaml:"dynamics"`
	Pins      Pins                      `yaml:"pins"`
	Scales    []ToneScale               `yaml:"scales"`
	Gradients map[string][]GradientStop `yaml:"gradients"`
	Palettes  []PlayerPalette           `yaml:"palettes"`
	BigWave   PlayerPalette             `yaml:"bigWavePalette"`

	JoystickMode bool `yaml:"joystickMode"` // false: analog input replaced by a random sample per trigger
}

// Default returns the built-in configuration of the five-player museum
// installation. Load merges a YAML file on top of it.
func Default() *Config {
	return &Config{
		Geometry: Geometry{
			Players:     5,
			PlayerWidth: 8,
			Height:      50,
			PlayerMaxY:  18,
			BigWaveY:    30,
		},
		Timings: Timings{
			TickMs:             10,
			CoincidenceMs:      20,
			CoincidenceStaleMs: 2000,
			OverrideActiveMs:   2000,
			InactivityMs:       10000,
			BigWaveEnvelopeMs:  70,
			BigWaveNoteMs:      5000,
			ModeDebounceMs:     500,
			PreviewStepMs:      120,
			IdleStepMs:         10,
		},
		MIDI: MIDI{
			Velocity:       120,
			BigWaveChannel: 7,
			IdleChannel:    8,
			ModeController: 20,
			ExcludedOutputs: []string{
				"Midi Through", "Through Port", "Dummy",
			},
		},
		Dynamics: LayerDynamics{
			LowerSustain: Dynamics{Speed: 0.02, Damping: 12.0},
			UpperSustain: Dynamics{Speed: 0.012, Damping: 12.0},
			LowerRelease: Dynamics{Speed: 0.02, Damping: 6.0},
			UpperRelease: Dynamics{Speed: 0.012, Damping: 5.0},
			LowerIdle:    Dynamics{Speed: 0.02, Damping: 7.0},
			UpperIdle:    Dynamics{Speed: 0.012, Damping: 5.0},
			BigLower:     Dynamics{Speed: 0.007, Damping: 10.0},
			BigUpper:     Dynamics{Speed: 0.004, Damping: 10.5},
		},
		Pins: Pins{
			Analog:     []int{23, 20, 17, 14, 39},
			Trigger1:   []int{22, 19, 16, 41, 38},
			Trigger2:   []int{21, 18, 15, 40, 37},
			ModeButton: 33,
			Brightness: 26,
		},
		Scales:    defaultScales(),
		Gradients: defaultGradients(),
		Palettes: []PlayerPalette{
			{Lower: "darkBlue", Upper: "purpleWhite"},
			{Lower: "darkGreen", Upper: "yellowWhite"},
			{Lower: "darkRed", Upper: "purpleWhite"},
			{Lower: "darkOrange", Upper: "yellowWhite"},
			{Lower: "darkPurple", Upper: "blueWhite"},
		},
		BigWave: PlayerPalette{Lower: "yellowRed", Upper: "yellowRed"},
	}
}

// Load reads a YAML file and merges it over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the cross-field constraints that the engine relies on.
func (c *Config) Validate() error {
	g := c.Geometry
	if g.Players <= 0 || g.PlayerWidth <= 0 || g.Height <= 0 {
		return fmt.Errorf("config: invalid geometry %dx%dx%d", g.Players, g.PlayerWidth, g.Height)
	}
	if len(c.Pins.Analog) < g.Players || len(c.Pins.Trigger1) < g.Players || len(c.Pins.Trigger2) < g.Players {
		return fmt.Errorf("config: need pin assignments for %d players", g.Players)
	}
	if len(c.Palettes) < g.Players {
		return fmt.Errorf("config: need palettes for %d players", g.Players)
	}
	if len(c.Scales) == 0 {
		return fmt.Errorf("config: at least one tonescale required")
	}
	for _, s := range c.Scales {
		switch s.Mode {
		case "random", "team", "canon":
		default:
			return fmt.Errorf("config: scale %q has unknown mode %q", s.Name, s.Mode)
		}
	}
	for i, p := range c.Palettes {
		if _, ok := c.Gradients[p.Lower]; !ok {
			return fmt.Errorf("config: player %d lower palette %q not defined", i, p.Lower)
		}
		if _, ok := c.Gradients[p.Upper]; !ok {
			return fmt.Errorf("config: player %d upper palette %q not defined", i, p.Upper)
		}
	}
	return nil
}
