package driver

import (
	"slices"
	"sync"

	"github.com/skyfolio/ambience/internal/domain"
)

// skyTheme is the palette for one phase of the day.
type skyTheme struct {
	gradient []string
	glow     string
	text     string
}

// skyThemes maps each phase to its gradient stops (top to bottom), glow
// colour, and legible text colour.
var skyThemes = map[domain.TimePhase]skyTheme{
	domain.PhaseDawn: {
		gradient: []string{"#FFD36E", "#FF6F48", "#A0409B", "#5A2F87", "#352267"},
		glow:     "#FFA52A",
		text:     "#FFFFFF",
	},
	domain.PhaseMorning: {
		gradient: []string{"#FFD700", "#F0E68C", "#87CEFA", "#4682B4"},
		glow:     "#FFD700",
		text:     "#2c3e50",
	},
	domain.PhaseDay: {
		gradient: []string{"#E0F6FF", "#89CFF0", "#007FFF", "#0059B2"},
		glow:     "#FFFFE0",
		text:     "#2c3e50",
	},
	domain.PhaseAfternoon: {
		gradient: []string{"#FFA500", "#FFC700", "#4169E1", "#483D8B"},
		glow:     "#FFCA28",
		text:     "#2c3e50",
	},
	domain.PhaseDusk: {
		gradient: []string{"#FFB347", "#FF9037", "#E16A34", "#5C2E7F", "#34175A"},
		glow:     "#FF9A3C",
		text:     "#FFFFFF",
	},
	domain.PhaseNight: {
		gradient: []string{"#020824", "#03133D", "#06246A", "#0C338E"},
		glow:     "#F9F5B1",
		text:     "#FFFFFF",
	},
}

// SkyFrame is the sky layer's render state: the phase palette plus the glow
// body's position along its arc.
type SkyFrame struct {
	Phase       domain.TimePhase `json:"phase"`
	Gradient    []string         `json:"gradient"`
	GlowColor   string           `json:"glow_color"`
	TextColor   string           `json:"text_color"`
	GlowX       float64          `json:"glow_x"`
	GlowY       float64          `json:"glow_y"`
	StarOpacity float64          `json:"star_opacity"`
}

// Sky turns celestial state into sky frames.
type Sky struct {
	mu    sync.Mutex
	frame SkyFrame
	set   bool
}

// NewSky creates a sky driver.
func NewSky() *Sky {
	return &Sky{}
}

// Apply reconciles the sky with the update.
func (s *Sky) Apply(u Update) bool {
	theme := skyThemes[u.Celestial.Phase]
	next := SkyFrame{
		Phase:       u.Celestial.Phase,
		Gradient:    theme.gradient,
		GlowColor:   theme.glow,
		TextColor:   theme.text,
		GlowX:       u.Celestial.SkyX,
		GlowY:       u.Celestial.SkyY,
		StarOpacity: u.Celestial.StarOpacity,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set && skyFramesEqual(s.frame, next) {
		return false
	}
	s.frame = next
	s.set = true
	return true
}

// Frame returns the current sky frame.
func (s *Sky) Frame() SkyFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Close is a no-op; the sky holds no resources.
func (s *Sky) Close() {}

func skyFramesEqual(a, b SkyFrame) bool {
	return a.Phase == b.Phase &&
		a.GlowX == b.GlowX &&
		a.GlowY == b.GlowY &&
		a.StarOpacity == b.StarOpacity &&
		slices.Equal(a.Gradient, b.Gradient)
}
