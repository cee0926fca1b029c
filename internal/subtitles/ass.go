package subtitles

import (
	"fmt"
	"math"
	"strings"
)

// Style describes the single visual style the rendered script declares.
type Style struct {
	PlayResX int
	PlayResY int
	Font     string
	FontSize int
	MarginV  int
}

var assEscaper = strings.NewReplacer(
	`\`, `\\`,
	`{`, `\{`,
	`}`, `\}`,
)

// EscapeText escapes structural ASS markup characters so narration content
// cannot be read as override directives.
func EscapeText(text string) string {
	return assEscaper.Replace(text)
}

// FormatTimestamp renders seconds as an ASS H:MM:SS.cc timestamp.
// Negative inputs clamp to zero; centiseconds truncate.
func FormatTimestamp(seconds float64) string {
	total := math.Max(0, seconds)
	whole := int(total)
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	centis := int((total - math.Floor(total)) * 100)
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}

// Render emits a complete ASS script: script info, one style, and a
// dialogue line per cue. Karaoke cues highlight word by word via \k tags
// (the highlight uses the style's secondary colour); plain cues place each
// wrapped line around the vertical center.
func Render(cues []Cue, style Style) string {
	centerX := style.PlayResX / 2
	centerY := style.PlayResY / 2

	var b strings.Builder
	fmt.Fprintf(&b, "[Script Info]\n")
	fmt.Fprintf(&b, "Title: Reelsmith Narration\n")
	fmt.Fprintf(&b, "ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "WrapStyle: 2\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", style.PlayResX)
	fmt.Fprintf(&b, "PlayResY: %d\n", style.PlayResY)
	fmt.Fprintf(&b, "ScaledBorderAndShadow: yes\n\n")

	fmt.Fprintf(&b, "[V4+ Styles]\n")
	fmt.Fprintf(&b, "Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, "+
		"BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, "+
		"BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	// Primary white, secondary gold for the karaoke highlight, black outline.
	fmt.Fprintf(&b, "Style: Default,%s,%d,&H00FFFFFF,&H0038D7FF,&H00000000,&H00000000,"+
		"1,0,0,0,100,100,0,0,1,2,0,5,10,10,%d,1\n\n", style.Font, style.FontSize, style.MarginV)

	fmt.Fprintf(&b, "[Events]\n")
	fmt.Fprintf(&b, "Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, cue := range cues {
		var text string
		if cue.IsKaraoke() {
			text = karaokeText(cue, centerX, centerY)
		} else {
			text = plainText(cue, centerX, centerY, style.FontSize)
		}
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			FormatTimestamp(cue.Start), FormatTimestamp(cue.End), text)
	}
	return b.String()
}

// karaokeText joins the cue's token lines with explicit breaks under a
// single centered position tag; ASS stacks the lines around that anchor.
func karaokeText(cue Cue, centerX, centerY int) string {
	lineStrings := make([]string, 0, len(cue.Karaoke))
	for _, line := range cue.Karaoke {
		parts := make([]string, 0, len(line))
		for _, token := range line {
			parts = append(parts, fmt.Sprintf(`{\k%d}%s`, token.DurationCS, EscapeText(token.Word)))
		}
		lineStrings = append(lineStrings, strings.Join(parts, " "))
	}
	return fmt.Sprintf(`{\pos(%d,%d)\an5\q2}`, centerX, centerY) + strings.Join(lineStrings, `\N`)
}

// plainText positions each wrapped line explicitly so the block stays
// centered regardless of line count.
func plainText(cue Cue, centerX, centerY, fontSize int) string {
	lineHeight := float64(fontSize) * 1.3
	totalHeight := float64(len(cue.Lines)) * lineHeight
	startY := float64(centerY) - totalHeight/2 + lineHeight/2

	parts := make([]string, 0, len(cue.Lines))
	for i, line := range cue.Lines {
		y := int(startY + float64(i)*lineHeight)
		parts = append(parts, fmt.Sprintf(`{\pos(%d,%d)\an5\q2}%s`, centerX, y, EscapeText(line)))
	}
	return strings.Join(parts, `\N`)
}
