package server

import (
	"encoding/json"
	"fmt"
	"image/color"
	"net/http"
	"strconv"

	"github.com/df07/go-ocean-raytracer/pkg/core"
	"github.com/df07/go-ocean-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Branch     string                 `json:"branch"` // "sky" or "water"
	Mode       string                 `json:"mode"`
	Direction  [3]float64             `json:"direction"`
	Hit        bool                   `json:"hit"` // Whether the march reached the surface
	Point      [3]float64             `json:"point"`
	Normal     [3]float64             `json:"normal"`
	Distance   float64                `json:"distance"`
	Steps      int                    `json:"steps"`
	Color      [3]float64             `json:"color"` // Linear color
	Properties map[string]interface{} `json:"properties"`
}

func toArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// hexColor formats a pixel the way it is written to the image
func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// newInspectResponse converts a traced pixel to its JSON form
func newInspectResponse(frame *renderer.Frame, info renderer.PixelInfo) InspectResponse {
	in := frame.Input()
	response := InspectResponse{
		Branch:    info.Branch.String(),
		Mode:      frame.Mode().String(),
		Direction: toArray(info.Ray.Direction),
		Color:     toArray(info.Color),
		Properties: map[string]interface{}{
			"hex":          hexColor(frame.OutputColor(info.Color)),
			"time":         in.Time,
			"reflectivity": in.Settings.Reflectivity,
			"zoom":         in.Settings.Zoom,
		},
	}

	if info.Branch == renderer.BranchWater {
		response.Hit = info.Hit.Found
		response.Point = toArray(info.Hit.Position)
		response.Normal = toArray(info.Normal)
		response.Distance = info.Hit.Distance
		response.Steps = info.Hit.Steps
	}
	return response
}

// handleInspect traces a single pixel and reports how it was shaded
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Create request object for parameter parsing
	inspectReq := &RenderRequest{}

	if err := s.parseCommonParams(r.URL.Query(), inspectReq); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid parameters: " + err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid y coordinate"})
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	fr, err := s.newFrameRenderer(inspectReq)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	frame := fr.Prepare(inspectReq.frameInput(1))
	response := newInspectResponse(frame, frame.Inspect(pixelX, pixelY))

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
