package vinyl

import (
	"fmt"
	"os"
	"strings"
)

// DebugEnv names the environment variable read by SettingsFromEnv.
const DebugEnv = "VINYL_DEBUG"

// Settings toggles the on-canvas diagnostics drawn by DrawLayout.
type Settings struct {
	// DrawDebugStrings prints view and hover information in the top-left
	// corner.
	DrawDebugStrings bool
	// DrawShapeVertices marks the mapped vertices of selected shapes.
	DrawShapeVertices bool
	// DrawHitTestSurface overlays the hit buffer of the last query.
	DrawHitTestSurface bool
}

// ParseSettings parses a comma separated list of diagnostics: "strings",
// "vertices", "hittest" or "all". Unknown names are an error; the known
// ones are still applied.
func ParseSettings(list string) (Settings, error) {
	var s Settings
	var unknown []string
	for _, name := range strings.Split(list, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "strings":
			s.DrawDebugStrings = true
		case "vertices":
			s.DrawShapeVertices = true
		case "hittest":
			s.DrawHitTestSurface = true
		case "all":
			s = Settings{DrawDebugStrings: true, DrawShapeVertices: true, DrawHitTestSurface: true}
		default:
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return s, fmt.Errorf("vinyl: unknown diagnostics %q", unknown)
	}
	return s, nil
}

// SettingsFromEnv parses DebugEnv.
func SettingsFromEnv() (Settings, error) {
	return ParseSettings(os.Getenv(DebugEnv))
}
