package core

import "testing"

func TestRenderSettings_Mode(t *testing.T) {
	tests := []struct {
		name       string
		settings   RenderSettings
		haveSky    bool
		haveGround bool
		expected   RenderMode
	}{
		{"Procedural", RenderSettings{}, true, true, 0},
		{"Both textures", RenderSettings{UseSkyTexture: true, UseGroundTexture: true}, true, true, ModeSkyTexture | ModeGroundTexture},
		{"Sky flag without sky texture", RenderSettings{UseSkyTexture: true}, false, true, 0},
		{"Ground flag without ground texture", RenderSettings{UseGroundTexture: true}, true, false, 0},
		{"Ground only", RenderSettings{UseGroundTexture: true}, false, true, ModeGroundTexture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode := tt.settings.Mode(tt.haveSky, tt.haveGround)
			if mode != tt.expected {
				t.Errorf("Expected mode %v, got %v", tt.expected, mode)
			}
		})
	}
}

func TestRenderSettings_Validate(t *testing.T) {
	if err := DefaultRenderSettings().Validate(); err != nil {
		t.Errorf("Default settings should be valid: %v", err)
	}

	invalid := []RenderSettings{
		{Reflectivity: -0.1, Zoom: 1},
		{Reflectivity: 1.1, Zoom: 1},
		{Reflectivity: 0.5, Zoom: 0},
	}
	for _, s := range invalid {
		if err := s.Validate(); err == nil {
			t.Errorf("Expected error for %+v", s)
		}
	}
}
