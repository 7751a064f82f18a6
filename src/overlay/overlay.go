// Package overlay is the fyne implementation of the per-display capture view.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"snapshot/src/annotation"
	"snapshot/src/geometry"
	"snapshot/src/messages"
	"snapshot/src/router"
	"snapshot/src/screenshot"
	"snapshot/src/session"
)

const handleSize = 10

var handleColor = color.White

// Factory creates one borderless full-screen window per display.
type Factory struct {
	App    fyne.App
	Router *router.Router
}

// NewView builds the overlay for d, moves it onto the display and makes it
// full screen.
func (f Factory) NewView(d screenshot.Display) (session.View, error) {
	if f.App == nil {
		return nil, fmt.Errorf("overlay: no fyne app")
	}
	v := &view{display: d, router: f.Router}
	fyne.DoAndWait(func() { v.build(f.App) })
	v.place()
	fyne.Do(func() { v.window.SetFullScreen(true) })
	return v, nil
}

// place moves the window onto its display so going full screen picks that
// monitor. Drivers without native handles leave placement to the window
// manager.
func (v *view) place() {
	nw, ok := v.window.(driver.NativeWindow)
	if !ok {
		log.Printf("Overlay %d: driver has no native window, placement left to the window manager", v.display.ID)
		return
	}
	nw.RunNative(func(ctx any) {
		if err := placeWindow(ctx, v.display.Bounds); err != nil {
			log.Printf("Overlay %d: place at %v: %v", v.display.ID, v.display.Bounds, err)
			return
		}
		log.Printf("Overlay %d: placed at %v", v.display.ID, v.display.Bounds)
	})
}

// view mutates fyne objects only inside fyne.Do.
type view struct {
	display screenshot.Display
	router  *router.Router

	window     fyne.Window
	root       *fyne.Container
	background *canvas.Image
	preview    *canvas.Image
	markers    *fyne.Container
	handles    []*canvas.Circle
	tool       *fyne.Container
	copyButton *widget.Button

	previewFrame geometry.Rect
}

func (v *view) build(app fyne.App) {
	if drv, ok := app.Driver().(desktop.Driver); ok {
		v.window = drv.CreateSplashWindow()
	} else {
		v.window = app.NewWindow(fmt.Sprintf("Snapshot %d", v.display.ID))
	}
	v.window.SetPadded(false)

	size := fyne.NewSize(float32(v.display.Frame.W), float32(v.display.Frame.H))

	v.background = canvas.NewImageFromImage(nil)
	v.background.FillMode = canvas.ImageFillStretch
	v.background.Resize(size)

	v.preview = canvas.NewImageFromImage(nil)
	v.preview.FillMode = canvas.ImageFillStretch
	v.preview.Hide()

	v.markers = container.NewWithoutLayout()

	for i := 0; i < 8; i++ {
		c := canvas.NewCircle(handleColor)
		c.Resize(fyne.NewSize(handleSize, handleSize))
		c.Hide()
		v.handles = append(v.handles, c)
	}

	v.copyButton = widget.NewButton("Copy", v.toolClicked)
	v.tool = container.NewWithoutLayout(v.copyButton)
	v.tool.Hide()

	objects := []fyne.CanvasObject{v.background, v.preview, v.markers}
	for _, h := range v.handles {
		objects = append(objects, h)
	}
	objects = append(objects, v.tool)
	v.root = container.NewWithoutLayout(objects...)

	v.window.SetContent(v.root)
	v.window.Resize(size)
	v.window.Show()
}

func (v *view) toolClicked() {
	if v.router == nil {
		return
	}
	if err := v.router.SendToLoop(messages.EndpointOverlay, messages.ToolClicked{Display: v.display.ID}); err != nil {
		log.Printf("Overlay %d: %v", v.display.ID, err)
	}
}

func pos(r geometry.Rect) fyne.Position { return fyne.NewPos(float32(r.X), float32(r.Y)) }

func size(r geometry.Rect) fyne.Size { return fyne.NewSize(float32(r.W), float32(r.H)) }

func (v *view) SetBackground(img image.Image) {
	fyne.Do(func() {
		v.background.Image = img
		v.background.Refresh()
	})
}

func (v *view) SetPreview(p *session.Preview) {
	var crop image.Image
	if p != nil {
		crop = subImage(p.Image, p.Source)
	}
	fyne.Do(func() {
		if p == nil || crop == nil {
			v.preview.Hide()
			v.markers.Hide()
			v.previewFrame = geometry.Rect{}
			return
		}
		v.previewFrame = p.Frame
		v.preview.Image = crop
		v.preview.Move(pos(p.Frame))
		v.preview.Resize(size(p.Frame))
		v.preview.Show()
		v.preview.Refresh()
		v.markers.Move(pos(p.Frame))
		v.markers.Resize(size(p.Frame))
		v.markers.Show()
	})
}

func subImage(img image.Image, r image.Rectangle) image.Image {
	if img == nil || r.Empty() {
		return nil
	}
	if s, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return s.SubImage(r)
	}
	return img
}

func (v *view) SetMarkers(markers []geometry.Rect, style annotation.Style) {
	fyne.Do(func() {
		objects := make([]fyne.CanvasObject, 0, len(markers))
		for _, m := range markers {
			r := canvas.NewRectangle(color.Transparent)
			r.StrokeColor = style.Color
			r.StrokeWidth = float32(style.Width)
			r.Move(pos(m))
			r.Resize(size(m))
			objects = append(objects, r)
		}
		v.markers.Objects = objects
		v.markers.Refresh()
	})
}

// SetHandles shows eight dots at the corners and edge midpoints of the preview.
func (v *view) SetHandles(visible bool) {
	fyne.Do(func() {
		f := v.previewFrame
		if !visible || f.Empty() {
			for _, h := range v.handles {
				h.Hide()
			}
			return
		}
		xs := []float64{f.MinX(), f.X + f.W/2, f.MaxX()}
		ys := []float64{f.MinY(), f.Y + f.H/2, f.MaxY()}
		i := 0
		for yi, y := range ys {
			for xi, x := range xs {
				if xi == 1 && yi == 1 {
					continue
				}
				h := v.handles[i]
				h.Move(fyne.NewPos(float32(x-handleSize/2), float32(y-handleSize/2)))
				h.Show()
				i++
			}
		}
	})
}

func (v *view) ShowTool(layout session.ToolLayout) {
	fyne.Do(func() {
		v.tool.Move(pos(layout.Frame))
		v.tool.Resize(size(layout.Frame))
		if len(layout.Buttons) > 0 {
			v.copyButton.Move(pos(layout.Buttons[0]))
			v.copyButton.Resize(size(layout.Buttons[0]))
		}
		v.tool.Show()
		v.tool.Refresh()
	})
}

func (v *view) HideTool() {
	fyne.Do(func() { v.tool.Hide() })
}

func (v *view) Close() {
	fyne.Do(func() {
		if v.window != nil {
			v.window.Close()
		}
	})
}
