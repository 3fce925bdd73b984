package conversion

import "strings"

// Orientation is the page orientation passed to the renderer
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// ParseOrientation lower-cases the value and falls back to portrait for
// anything that is not a known orientation.
func ParseOrientation(value string) Orientation {
	o := Orientation(strings.ToLower(strings.TrimSpace(value)))
	if !o.IsValid() {
		return OrientationPortrait
	}
	return o
}

// Margins holds page margins as renderer size strings (e.g. "10mm", "1in")
type Margins struct {
	Top    string
	Right  string
	Bottom string
	Left   string
}

// ParseMargins splits "<top> <right> <bottom> <left>" on single spaces.
// Any other token count, or an empty token from a doubled or trailing
// space, is rejected and reported through ok.
func ParseMargins(value string) (m Margins, ok bool) {
	tokens := strings.Split(value, " ")
	if len(tokens) != 4 {
		return Margins{}, false
	}
	for _, token := range tokens {
		if token == "" {
			return Margins{}, false
		}
	}
	return Margins{
		Top:    tokens[0],
		Right:  tokens[1],
		Bottom: tokens[2],
		Left:   tokens[3],
	}, true
}

// RenderingOptions are the caller-supplied formatting directives.
// Empty fields are treated as absent.
type RenderingOptions struct {
	Margin      string
	Orientation string
	Title       string
}

// RenderSettings are the options derived from RenderingOptions
type RenderSettings struct {
	// Margins is nil unless a well-formed margin option was supplied
	Margins *Margins
	// Orientation always holds a valid value; portrait unless overridden
	Orientation Orientation
	// OrientationSet reports whether the caller supplied an orientation
	OrientationSet bool
	Title          string
}

// Option is a single renderer directive in wkhtmltopdf long-flag naming
type Option struct {
	Name  string
	Value string
}

// DeriveSettings maps rendering options onto renderer settings. Malformed
// margins are dropped and unknown orientations coerced to portrait.
func DeriveSettings(opts *RenderingOptions) RenderSettings {
	settings := RenderSettings{Orientation: OrientationPortrait}
	if opts == nil {
		return settings
	}

	if opts.Margin != "" {
		if m, ok := ParseMargins(opts.Margin); ok {
			settings.Margins = &m
		}
	}
	if opts.Orientation != "" {
		settings.Orientation = ParseOrientation(opts.Orientation)
		settings.OrientationSet = true
	}
	settings.Title = opts.Title

	return settings
}

// Options returns the settings as an ordered list of renderer directives
func (s RenderSettings) Options() []Option {
	var opts []Option
	if s.Margins != nil {
		opts = append(opts,
			Option{Name: "margin-top", Value: s.Margins.Top},
			Option{Name: "margin-right", Value: s.Margins.Right},
			Option{Name: "margin-bottom", Value: s.Margins.Bottom},
			Option{Name: "margin-left", Value: s.Margins.Left},
		)
	}
	if s.OrientationSet {
		opts = append(opts, Option{Name: "orientation", Value: s.Orientation.String()})
	}
	if s.Title != "" {
		opts = append(opts, Option{Name: "title", Value: s.Title})
	}
	return opts
}
