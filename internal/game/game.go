package game

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/iburimskiy/particle-mirror/internal/camera"
	"github.com/iburimskiy/particle-mirror/internal/config"
)

type touchPoint struct{ x, y int }

// Game adapts a Scene to ebiten: it turns mouse, wheel, touch and keyboard
// input into camera commands and draws the control overlay.
type Game struct {
	scene *Scene

	// mouse drag
	dragging     bool
	lastX, lastY int

	// touch
	touches   map[ebiten.TouchID]touchPoint
	pinchDist float64
	touchIDs  []ebiten.TouchID

	// button state
	buttonHovered bool
	buttonPressed bool
}

func NewGame(scene *Scene) *Game {
	return &Game{
		scene:   scene,
		touches: map[ebiten.TouchID]touchPoint{},
	}
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		_ = g.scene.Close()
	}

	if !g.scene.Closed() {
		gesture := g.handleButton()
		gesture = g.handleMouse() || gesture
		gesture = g.handleTouches() || gesture
		if inpututil.IsKeyJustPressed(ebiten.KeyO) {
			g.requestOrientation()
			gesture = true
		}
		if gesture || len(inpututil.AppendJustPressedKeys(nil)) > 0 {
			g.scene.StartAudio()
		}
		g.scene.Poll()
	}
	return g.scene.loop.Update()
}

func (g *Game) requestOrientation() {
	if g.scene.controller.CanRequestOrientation() {
		g.scene.controller.RequestOrientation(context.Background())
	}
}

// handleButton tracks the enable-orientation button and reports whether the
// mouse was clicked anywhere.
func (g *Game) handleButton() bool {
	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = inButton(mouseX, mouseY)

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered {
			g.requestOrientation()
		}
		g.buttonPressed = false
	}
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (g *Game) handleMouse() bool {
	x, y := ebiten.CursorPosition()
	gesture := false

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !inButton(x, y):
		g.dragging = true
		gesture = true
	case !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.dragging = false
	case g.dragging:
		_, h := g.scene.Size()
		g.scene.controller.Drag(float64(x-g.lastX), float64(y-g.lastY), h)
	}
	g.lastX, g.lastY = x, y

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.scene.controller.Wheel(wy)
	}
	return gesture
}

// handleTouches maps one finger to orbit and two fingers to pinch zoom.
func (g *Game) handleTouches() bool {
	gesture := false
	for _, id := range inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0]) {
		x, y := ebiten.TouchPosition(id)
		if inButton(x, y) {
			g.requestOrientation()
		}
		gesture = true
	}

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	current := make(map[ebiten.TouchID]touchPoint, len(g.touchIDs))
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		current[id] = touchPoint{x, y}
	}

	switch len(g.touchIDs) {
	case 1:
		id := g.touchIDs[0]
		if prev, ok := g.touches[id]; ok {
			cur := current[id]
			_, h := g.scene.Size()
			g.scene.controller.Drag(float64(cur.x-prev.x), float64(cur.y-prev.y), h)
		}
		g.pinchDist = 0
	case 2:
		a, b := current[g.touchIDs[0]], current[g.touchIDs[1]]
		d := distance(a.x, a.y, b.x, b.y)
		if g.pinchDist > 0 && d > 0 {
			g.scene.controller.Pinch(g.pinchDist / d)
		}
		g.pinchDist = d
	default:
		g.pinchDist = 0
	}
	g.touches = current
	return gesture
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.loop.Draw(screen)
	if g.scene.Closed() {
		return
	}

	if g.scene.controller.CanRequestOrientation() {
		g.drawButton(screen)
	}
	ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
}

func (g *Game) status() string {
	var status string
	switch state := g.scene.controller.State(); state {
	case camera.Manual:
		status = "Drag to orbit, wheel to zoom"
	default:
		status = state.String()
	}
	if g.scene.player != nil && g.scene.player.Playing() {
		status += " | Playing " + formatDuration(g.scene.player.Position())
	} else {
		status += " | Click or press a key to start audio"
	}
	status += fmt.Sprintf(" | Bass %.2f | %.0f FPS", g.scene.uniforms.BassStrength, ebiten.ActualFPS())
	if g.scene.notice != "" {
		status += " | " + g.scene.notice
	}
	if g.scene.audioErr != nil {
		status += " | Error: " + g.scene.audioErr.Error()
	}
	if g.scene.renderErr != nil {
		status += " | Error: " + g.scene.renderErr.Error()
	}
	return status
}

func (g *Game) drawButton(screen *ebiten.Image) {
	// Button background
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255} // Pressed
	} else if g.buttonHovered {
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255} // Hovered
	} else {
		bgColor = color.RGBA{R: 100, G: 120, B: 160, A: 255} // Normal
	}

	vector.DrawFilledRect(screen, float32(config.ButtonX), float32(config.ButtonY), float32(config.ButtonWidth), float32(config.ButtonHeight), bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	vector.StrokeRect(screen, float32(config.ButtonX), float32(config.ButtonY), float32(config.ButtonWidth), float32(config.ButtonHeight), 2, borderColor, false)

	text := "Enable orientation"
	textWidth := len(text) * 6 // debug font glyphs are 6px wide
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-16)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

// Layout follows the window size so the scene renders at native resolution.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.scene.Size()
	}
	if w, h := g.scene.Size(); w != outsideWidth || h != outsideHeight {
		g.scene.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
