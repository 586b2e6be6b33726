package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"greenhouse/components"
	"greenhouse/model"
)

// Scene draws the simulation world: sky, ground, atmosphere layers, clouds,
// and the photon particles, plus a temperature HUD.
type Scene struct {
	renderer      *Renderer
	width, height int32
	topAltitude   float64
	span          float64
	groundPx      int32 // screen rows reserved for the ground band
}

// NewScene creates a scene for a world of the given extents.
func NewScene(width, height int32, topAltitude, span float64) *Scene {
	return &Scene{
		renderer:    NewRenderer(),
		width:       width,
		height:      height,
		topAltitude: topAltitude,
		span:        span,
		groundPx:    60,
	}
}

// screenY maps a world altitude to a screen row.
func (s *Scene) screenY(altitude float64) int32 {
	usable := float64(s.height - s.groundPx)
	return int32(usable - altitude/s.topAltitude*usable)
}

// screenX maps a world horizontal position to a screen column.
func (s *Scene) screenX(x float64) int32 {
	return int32(x / s.span * float64(s.width))
}

// Draw renders the full scene.
func (s *Scene) Draw(sim *model.Simulation) {
	s.drawSky()
	s.drawGround(sim)
	s.drawLayers(sim)
	s.drawClouds(sim)
	s.drawPhotons(sim)
	s.drawHUD(sim)
}

func (s *Scene) drawSky() {
	top := rl.Color{R: 8, G: 10, B: 28, A: 255}
	horizon := rl.Color{R: 70, G: 120, B: 190, A: 255}
	rl.DrawRectangleGradientV(0, 0, s.width, s.height-s.groundPx, top, horizon)
}

func (s *Scene) drawGround(sim *model.Simulation) {
	// Warmer ground shades toward red.
	t := sim.SurfaceTemperature()
	warm := uint8(0)
	if t > 245 {
		w := (t - 245) / 80 * 160
		if w > 160 {
			w = 160
		}
		warm = uint8(w)
	}
	color := rl.Color{R: 60 + warm, G: 110, B: 60, A: 255}
	rl.DrawRectangle(0, s.height-s.groundPx, s.width, s.groundPx, color)
}

func (s *Scene) drawLayers(sim *model.Simulation) {
	for i, layer := range sim.AtmosphereLayers() {
		y := s.screenY(layer.Altitude())
		color := rl.Color{R: 160, G: 200, B: 255, A: 90}
		if !layer.IsActive() {
			color.A = 25
		} else {
			// Absorption proportion drives opacity.
			color.A = 40 + uint8(layer.AbsorptionProportion()*160)
		}
		rl.DrawRectangle(0, y-3, s.width, 6, color)
		label := fmt.Sprintf("layer %d  %.0f K", i+1, layer.Temperature())
		rl.DrawText(label, 8, y-18, 12, rl.Color{R: 200, G: 220, B: 255, A: 180})
	}
}

func (s *Scene) drawClouds(sim *model.Simulation) {
	for _, cloud := range sim.Clouds() {
		x, width, height := cloud.Bounds()
		cx := s.screenX(x)
		cy := s.screenY(cloud.Altitude())
		rx := float32(s.screenX(width)) / 2
		ry := float32(height/s.topAltitude) * float32(s.height-s.groundPx) / 2
		if ry < 8 {
			ry = 8
		}
		color := rl.Color{R: 235, G: 235, B: 245, A: 220}
		if !cloud.Enabled() {
			color.A = 50
		}
		rl.DrawEllipse(cx, cy, rx, ry, color)
	}
}

func (s *Scene) drawPhotons(sim *model.Simulation) {
	sim.Photons().ForEach(func(x, y float64, w components.Wavelength, absorbed bool) {
		px := s.screenX(x)
		py := s.screenY(y)
		var color rl.Color
		if w == components.WavelengthVisible {
			color = rl.Color{R: 255, G: 240, B: 120, A: 255}
		} else {
			color = rl.Color{R: 255, G: 90, B: 70, A: 255}
		}
		if absorbed {
			color.A = 120
		}
		rl.DrawCircle(px, py, 2.5, color)
	})
}

func (s *Scene) drawHUD(sim *model.Simulation) {
	r := s.renderer
	r.DrawPanel(8, 8, 300, 120)
	y := int32(16)
	y = r.DrawTemperature(16, y, "Surface", sim.SurfaceTemperature())
	y = r.DrawLabelValue(16, y, "Sun output", fmt.Sprintf("%.0f W", sim.SunOutputRate()))
	y = r.DrawLabelValue(16, y, "To space", fmt.Sprintf("%.0f W", sim.SpaceOutgoingRate()))
	balance := "no"
	if sim.InRadiativeBalance() {
		balance = "yes"
	}
	y = r.DrawLabelValue(16, y, "In balance", balance)
	r.DrawLabelValue(16, y, "Packets", fmt.Sprintf("%d", sim.PacketCount()))
}
