package vinyl

import "testing"

func TestParseSettings(t *testing.T) {
	tests := []struct {
		in      string
		want    Settings
		wantErr bool
	}{
		{"", Settings{}, false},
		{"strings", Settings{DrawDebugStrings: true}, false},
		{"vertices, hittest", Settings{DrawShapeVertices: true, DrawHitTestSurface: true}, false},
		{"ALL", Settings{true, true, true}, false},
		{"strings,bogus", Settings{DrawDebugStrings: true}, true},
		{",,", Settings{}, false},
	}
	for _, tt := range tests {
		got, err := ParseSettings(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSettings(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseSettings(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv(DebugEnv, "hittest")
	s, err := SettingsFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if s != (Settings{DrawHitTestSurface: true}) {
		t.Errorf("SettingsFromEnv = %+v", s)
	}
}
