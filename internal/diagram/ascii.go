package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexiusacademia/rcbeam/internal/beam"
	"github.com/alexiusacademia/rcbeam/internal/is456"
	"github.com/alexiusacademia/rcbeam/internal/section"
)

// SectionData holds data for drawing a beam section at the ultimate
// limit state. Depths are measured from the compression face, which is
// always drawn at the top.
type SectionData struct {
	// Outline, compression face up (mm)
	Vertices []section.Point
	Width    float64
	Height   float64

	TensionFace beam.Face

	// Neutral axis and compression zone
	NeutralAxisDepth float64 // xu (mm)

	// Reinforcement
	TensionSteelDepth float64 // d (mm)
	TensionSteelArea  float64 // mm²
	TensionBarCount   int     // bars drawn, 0 draws a nominal pair
	CompSteelDepth    float64 // d' (mm), 0 if none
	CompSteelArea     float64 // mm², 0 if none

	// Strains
	EpsilonCU float64
	EpsilonT  float64 // tension steel strain
	EpsilonSC float64 // compression steel strain
	EpsilonY  float64 // design yield strain

	// Stresses (MPa)
	Fc        float64 // 0.446 fck
	FsTension float64
	FsComp    float64

	TensionYields bool
	IsDoubly      bool
}

// NewSectionData builds drawing data from a flexure result and the steel
// areas actually provided.
func NewSectionData(g section.Geometry, grades is456.Grades, r beam.FlexureResult, ast, asc float64) SectionData {
	data := SectionData{
		Vertices:          g.Vertices(),
		Width:             g.Width,
		Height:            g.Depth,
		TensionFace:       r.TensionFace,
		NeutralAxisDepth:  r.Xu,
		TensionSteelDepth: g.EffectiveDepth,
		TensionSteelArea:  ast,
		EpsilonCU:         is456.EpsilonCU,
		EpsilonY:          YieldStrain(grades.Steel),
		Fc:                is456.ConcreteDisplaced * grades.Fck(),
		FsTension:         is456.SteelDesignFactor * grades.Fy(),
		IsDoubly:          asc > 0,
	}
	if g.IsFlanged() {
		data.Width = g.FlangeWidth
	}
	if r.TensionFace == beam.Top {
		// Flange in tension: draw the web only, compression face up
		data.Vertices = section.Geometry{Width: g.Width, Depth: g.Depth}.Vertices()
		data.Width = g.Width
	}

	if r.Xu > 0 {
		data.EpsilonT = is456.EpsilonCU * (g.EffectiveDepth - r.Xu) / r.Xu
		data.TensionYields = data.EpsilonT >= data.EpsilonY
	}
	if asc > 0 {
		data.CompSteelDepth = g.CompressionSteelDepth()
		data.CompSteelArea = asc
		if r.Xu > 0 {
			data.EpsilonSC = is456.EpsilonCU * (r.Xu - data.CompSteelDepth) / r.Xu
			data.FsComp = is456.SteelStress(grades.Steel, data.EpsilonSC)
		}
	}
	return data
}

// YieldStrain returns the design yield strain: 0.87 fy / Es, plus the
// 0.002 offset for cold worked bars. Section 38.1 (f)
func YieldStrain(fy is456.SteelGrade) float64 {
	eps := is456.SteelDesignFactor * float64(fy) / is456.Es
	if fy > 250 {
		eps += 0.002
	}
	return eps
}

// DrawASCIISectionDiagram creates an ASCII picture of the section with its
// compression zone, strain and stress profile.
func DrawASCIISectionDiagram(data SectionData) string {
	var sb strings.Builder

	widthChars := 30
	heightChars := 20

	row := func(depth float64) int {
		return int(depth / data.Height * float64(heightChars))
	}
	naLine := row(data.NeutralAxisDepth)
	tensionLine := row(data.TensionSteelDepth)
	compLine := row(data.CompSteelDepth)

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  SECTION (tension face: %s)      STRAIN              STRESS\n", data.TensionFace))
	sb.WriteString("  ────────────────────────────    ──────              ──────\n")

	for i := 0; i <= heightChars; i++ {
		switch i {
		case 0:
			sb.WriteString(fmt.Sprintf("  ┌%s┐", strings.Repeat("─", widthChars)))
		case heightChars:
			sb.WriteString(fmt.Sprintf("  └%s┘", strings.Repeat("─", widthChars)))
		default:
			fill := []rune(strings.Repeat(" ", widthChars))
			if i <= naLine {
				fill = []rune(strings.Repeat("░", widthChars))
			}
			mid := widthChars / 2
			if data.IsDoubly && i == compLine {
				copy(fill[mid-2:], []rune("●──●"))
			}
			if i == tensionLine {
				copy(fill[mid-3:], []rune("●────●"))
			}
			sb.WriteString(fmt.Sprintf("  │%s│", string(fill)))
			if i == naLine {
				sb.WriteString(" ◄─ N.A.")
			}
		}

		// Strain column
		sb.WriteString("    ")
		switch {
		case i == 0:
			sb.WriteString(fmt.Sprintf("  ├── εcu = %.4f", data.EpsilonCU))
		case i == naLine:
			sb.WriteString("  ├── ε = 0")
		case i == tensionLine:
			sb.WriteString(fmt.Sprintf("  ├── εst = %.4f%s", data.EpsilonT, yieldMark(data.TensionYields)))
		case data.IsDoubly && i == compLine:
			sb.WriteString(fmt.Sprintf("  ├── εsc = %.4f", data.EpsilonSC))
		case i < heightChars:
			sb.WriteString("  │")
		}

		// Stress column
		switch {
		case i == 0:
			sb.WriteString(fmt.Sprintf("      ┌── 0.446 fck = %.2f MPa", data.Fc))
		case i == naLine && naLine > 0:
			sb.WriteString("      └── (compression zone)")
		case i == tensionLine:
			sb.WriteString(fmt.Sprintf("      ── fst = %.1f MPa", data.FsTension))
		case data.IsDoubly && i == compLine:
			sb.WriteString(fmt.Sprintf("      ── fsc = %.1f MPa", data.FsComp))
		}

		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  ░░░ = Compression zone\n")
	sb.WriteString("  ●●● = Reinforcement\n")
	sb.WriteString(fmt.Sprintf("  N.A. at xu = %.1f mm from the compression face\n", data.NeutralAxisDepth))
	return sb.String()
}

func yieldMark(yields bool) string {
	if yields {
		return " (yields)"
	}
	return ""
}

// DrawStrainDiagram creates an ASCII strain distribution diagram
func DrawStrainDiagram(data SectionData) string {
	var sb strings.Builder

	height := 15
	width := 40

	maxStrain := math.Max(data.EpsilonCU, data.EpsilonT)
	scale := float64(width-10) / maxStrain

	sb.WriteString("\n")
	sb.WriteString("  STRAIN DISTRIBUTION\n")
	sb.WriteString("  ───────────────────\n\n")

	naLine := int(data.NeutralAxisDepth / data.Height * float64(height))
	steelLine := int(data.TensionSteelDepth / data.Height * float64(height))

	for i := 0; i <= height; i++ {
		depth := float64(i) / float64(height) * data.Height
		var strain float64
		if data.NeutralAxisDepth > 0 {
			strain = math.Abs(data.EpsilonCU * (data.NeutralAxisDepth - depth) / data.NeutralAxisDepth)
		}
		bar := strings.Repeat("█", int(strain*scale))

		switch {
		case i == 0:
			sb.WriteString(fmt.Sprintf("  Comp.  │%s▶ εcu=%.4f\n", bar, data.EpsilonCU))
		case i == naLine:
			sb.WriteString(fmt.Sprintf("  N.A.   ├%s (ε=0)\n", strings.Repeat("─", 5)))
		case i == steelLine:
			sb.WriteString(fmt.Sprintf("  Steel  │%s▶ εst=%.4f%s\n", bar, data.EpsilonT, yieldMark(data.TensionYields)))
		case i == height:
			sb.WriteString(fmt.Sprintf("  Tens.  │%s\n", bar))
		default:
			sb.WriteString(fmt.Sprintf("         │%s\n", bar))
		}
	}

	yieldBar := int(data.EpsilonY * scale)
	sb.WriteString(fmt.Sprintf("\n  εy = %.4f %s (design yield strain)\n", data.EpsilonY, strings.Repeat("─", yieldBar)+"┤"))
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := len([]rune(title))
	for _, line := range lines {
		if n := len([]rune(line)); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	pad := func(s string) string {
		return s + strings.Repeat(" ", maxLen-2-len([]rune(s)))
	}

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s║\n", pad(title)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s║\n", pad(line)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))
	return sb.String()
}
