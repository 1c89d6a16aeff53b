package section

import (
	"math"

	"github.com/alexiusacademia/rcbeam/internal/rcerr"
)

// Geometry describes a rectangular or flanged (T) beam cross-section.
// The flange, when present, sits on top of the web.
// Geometry is a value type; treat it as immutable once validated.
type Geometry struct {
	Width          float64 `json:"width" yaml:"width"`                     // b, web width (mm)
	Depth          float64 `json:"depth" yaml:"depth"`                     // D, overall depth (mm)
	EffectiveDepth float64 `json:"effective_depth" yaml:"effective_depth"` // d, to tension steel centroid (mm)
	Cover          float64 `json:"cover" yaml:"cover"`                     // clear cover (mm)

	// Flange (optional, both zero for a rectangular section)
	FlangeWidth     float64 `json:"flange_width,omitempty" yaml:"flange_width"`         // bf (mm)
	FlangeThickness float64 `json:"flange_thickness,omitempty" yaml:"flange_thickness"` // Df (mm)
}

// Point represents a 2D coordinate
type Point struct {
	X float64 `json:"x"` // mm
	Y float64 `json:"y"` // mm
}

// Properties holds gross (uncracked, plain concrete) section properties
type Properties struct {
	Area      float64 // Gross area (mm²)
	CentroidY float64 // From the soffit (mm)
	Inertia   float64 // Second moment of area about the centroid (mm⁴)
	Width     float64 // Maximum width (mm)
	Height    float64 // Total height (mm)
}

// New validates and returns a rectangular geometry.
func New(width, depth, effectiveDepth, cover float64) (Geometry, error) {
	g := Geometry{Width: width, Depth: depth, EffectiveDepth: effectiveDepth, Cover: cover}
	return g, g.Validate()
}

// NewFlanged validates and returns a T geometry.
func NewFlanged(width, depth, effectiveDepth, cover, flangeWidth, flangeThickness float64) (Geometry, error) {
	g := Geometry{
		Width:           width,
		Depth:           depth,
		EffectiveDepth:  effectiveDepth,
		Cover:           cover,
		FlangeWidth:     flangeWidth,
		FlangeThickness: flangeThickness,
	}
	return g, g.Validate()
}

// Validate checks the geometry invariants
func (g Geometry) Validate() error {
	for _, f := range []struct {
		field string
		value float64
	}{
		{"geometry.width", g.Width},
		{"geometry.depth", g.Depth},
		{"geometry.effective_depth", g.EffectiveDepth},
		{"geometry.cover", g.Cover},
		{"geometry.flange_width", g.FlangeWidth},
		{"geometry.flange_thickness", g.FlangeThickness},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return rcerr.Input(rcerr.CodeGeometry, f.field, "must be a finite number, got %v", f.value)
		}
	}
	if g.Width <= 0 {
		return rcerr.Input(rcerr.CodeGeometry, "geometry.width", "width must be positive, got %.2f", g.Width)
	}
	if g.Depth <= 0 {
		return rcerr.Input(rcerr.CodeGeometry, "geometry.depth", "overall depth must be positive, got %.2f", g.Depth)
	}
	if g.EffectiveDepth <= 0 {
		return rcerr.Input(rcerr.CodeGeometry, "geometry.effective_depth", "effective depth must be positive, got %.2f", g.EffectiveDepth)
	}
	if g.EffectiveDepth >= g.Depth {
		return rcerr.Input(rcerr.CodeGeometry, "geometry.effective_depth", "effective depth %.2f must be less than overall depth %.2f", g.EffectiveDepth, g.Depth)
	}
	if g.Cover <= 0 {
		return rcerr.Input(rcerr.CodeGeometry, "geometry.cover", "cover must be positive, got %.2f", g.Cover)
	}
	if g.EffectiveDepth > g.Depth-g.Cover {
		return rcerr.Input(rcerr.CodeGeometry, "geometry.cover", "cover %.2f leaves no room for tension steel at d=%.2f", g.Cover, g.EffectiveDepth)
	}
	if 2*g.Cover >= g.Width {
		return rcerr.Input(rcerr.CodeGeometry, "geometry.cover", "cover %.2f leaves no room across width %.2f", g.Cover, g.Width)
	}

	if g.FlangeWidth == 0 && g.FlangeThickness == 0 {
		return nil
	}
	if g.FlangeWidth < g.Width {
		return rcerr.Input(rcerr.CodeGeometry, "geometry.flange_width", "flange width %.2f must not be less than web width %.2f", g.FlangeWidth, g.Width)
	}
	if g.FlangeThickness <= 0 || g.FlangeThickness >= g.Depth {
		return rcerr.Input(rcerr.CodeGeometry, "geometry.flange_thickness", "flange thickness must be in (0, %.2f), got %.2f", g.Depth, g.FlangeThickness)
	}
	return nil
}

// IsFlanged reports whether the section has an effective flange.
func (g Geometry) IsFlanged() bool {
	return g.FlangeWidth > g.Width && g.FlangeThickness > 0
}

// CompressionSteelDepth returns d', the depth of the compression steel
// centroid from the compression face. Reinforcement is assumed symmetric,
// so d' = D - d.
func (g Geometry) CompressionSteelDepth() float64 {
	return g.Depth - g.EffectiveDepth
}

// GrossArea returns b·D for the web rectangle (used for steel limits).
func (g Geometry) GrossArea() float64 {
	return g.Width * g.Depth
}

// Scaled returns a copy with width, depth and effective depth scaled.
// The cover zone D - d is preserved when depth changes.
func (g Geometry) Scaled(widthFactor, depthFactor float64) Geometry {
	out := g
	out.Width = g.Width * widthFactor
	if out.FlangeWidth > 0 {
		out.FlangeWidth = g.FlangeWidth * widthFactor
		if out.FlangeWidth < out.Width {
			out.FlangeWidth = out.Width
		}
	}
	zone := g.Depth - g.EffectiveDepth
	out.Depth = g.Depth * depthFactor
	out.EffectiveDepth = out.Depth - zone
	return out
}
