package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"greenhouse/model"
)

// ControlPanel is the right-hand sidebar driving the simulation's mutable
// inputs: concentration, albedo, sun output, cloud and layer toggles.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlPanel creates a control panel anchored at (x, y).
func NewControlPanel(x, y, width int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel and applies any slider or checkbox changes straight
// to the simulation.
func (p *ControlPanel) Draw(sim *model.Simulation) {
	r := p.renderer
	padding := r.Theme.Padding
	sliderW := float32(p.width) - float32(padding)*2 - 60

	layers := sim.AtmosphereLayers()
	clouds := sim.Clouds()
	rows := int32(9 + len(layers) + len(clouds))
	panelHeight := rows*(r.Theme.LineHeight+14) + padding*2
	r.DrawPanel(p.x, p.y, p.width, panelHeight)

	x := p.x + padding
	y := p.y + padding

	y = r.DrawSectionHeader(x, y, "Greenhouse Gases")
	conc := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: sliderW, Height: 18},
		"0", "1",
		float32(sim.Concentration()), 0, 1,
	)
	rl.DrawText(fmt.Sprintf("%.2f", conc), x+int32(sliderW)+8, y, r.Theme.FontSize, r.Theme.ValueColor)
	if float64(conc) != sim.Concentration() {
		sim.SetConcentration(float64(conc))
	}
	y += r.Theme.LineHeight + 10

	y = r.DrawSectionHeader(x, y, "Surface Albedo")
	albedo := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: sliderW, Height: 18},
		"0", "1",
		float32(sim.Ground().Albedo()), 0, 1,
	)
	rl.DrawText(fmt.Sprintf("%.2f", albedo), x+int32(sliderW)+8, y, r.Theme.FontSize, r.Theme.ValueColor)
	if float64(albedo) != sim.Ground().Albedo() {
		sim.Ground().SetAlbedo(float64(albedo))
	}
	y += r.Theme.LineHeight + 10

	y = r.DrawSectionHeader(x, y, "Sun")
	mult := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: sliderW, Height: 18},
		"0", "2",
		float32(sim.Sun().OutputMultiplier()), 0, 2,
	)
	rl.DrawText(fmt.Sprintf("%.2fx", mult), x+int32(sliderW)+8, y, r.Theme.FontSize, r.Theme.ValueColor)
	if float64(mult) != sim.Sun().OutputMultiplier() {
		sim.Sun().SetOutputMultiplier(float64(mult))
	}
	y += r.Theme.LineHeight + 6

	shining := gui.CheckBox(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: 16, Height: 16},
		"Sun shining",
		sim.Sun().IsShining(),
	)
	if shining != sim.Sun().IsShining() {
		sim.Sun().SetShining(shining)
	}
	y += r.Theme.LineHeight + 6

	if len(clouds) > 0 {
		y = r.DrawSectionHeader(x, y, "Clouds")
		for i, cloud := range clouds {
			enabled := gui.CheckBox(
				rl.Rectangle{X: float32(x), Y: float32(y), Width: 16, Height: 16},
				fmt.Sprintf("Cloud %d", i+1),
				cloud.Enabled(),
			)
			if enabled != cloud.Enabled() {
				cloud.SetEnabled(enabled)
			}
			y += r.Theme.LineHeight + 4
		}
	}

	if len(layers) > 0 {
		y = r.DrawSectionHeader(x, y, "Atmosphere Layers")
		for i, layer := range layers {
			active := gui.CheckBox(
				rl.Rectangle{X: float32(x), Y: float32(y), Width: 16, Height: 16},
				fmt.Sprintf("Layer %d (%.0f km)", i+1, layer.Altitude()/1000),
				layer.IsActive(),
			)
			if active != layer.IsActive() {
				layer.SetActive(active)
			}
			y += r.Theme.LineHeight + 4
		}
	}

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y) + 6, Width: 100, Height: 26}, "Reset") {
		sim.Reset()
	}
}
