// dropview shows a page in a window and lets you attach a drop to any
// element by id, then scroll the page to watch it follow its anchor.
package main

import (
	"fmt"
	"image"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"droplayer/pkg/drop"
	"droplayer/pkg/geom"
	"droplayer/pkg/resource"
)

const (
	viewWidth  = 1024
	viewHeight = 700
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: "15:04:05.00"})

	a := app.New()
	w := a.NewWindow("dropview")
	w.Resize(fyne.NewSize(viewWidth, viewHeight+120))

	target := image.NewRGBA(image.Rect(0, 0, viewWidth, viewHeight))
	canvasImg := canvas.NewImageFromImage(target)
	canvasImg.FillMode = canvas.ImageFillOriginal

	status := widget.NewLabel("Enter a page path or URL and press Enter")

	var session *resource.Session
	redraw := func() {
		if session == nil {
			return
		}
		session.Settle()
		frame := image.NewRGBA(image.Rect(0, 0, viewWidth, viewHeight))
		session.Render(frame)
		canvasImg.Image = frame
		canvasImg.Refresh()
	}

	scroll := widget.NewSlider(0, 2000)
	scroll.Orientation = widget.Vertical
	scroll.OnChanged = func(v float64) {
		if session == nil {
			return
		}
		// slider runs bottom to top
		session.Page.ScrollWindow(scroll.Max - v)
		redraw()
	}

	anchorEntry := widget.NewEntry()
	anchorEntry.SetPlaceHolder("anchor id")
	contentEntry := widget.NewEntry()
	contentEntry.SetPlaceHolder(`<div style="width: 200px; height: 120px; background-color: #ffeeaa">drop</div>`)
	alignEntry := widget.NewEntry()
	alignEntry.SetPlaceHolder("top=bottom,left=left")

	addButton := widget.NewButton("Add drop", func() {
		if session == nil {
			return
		}
		align, err := drop.ParseAlign(alignEntry.Text)
		if err != nil {
			status.SetText(err.Error())
			return
		}
		content := contentEntry.Text
		if content == "" {
			content = contentEntry.PlaceHolder
		}
		d, err := session.Place(anchorEntry.Text, content, drop.Options{Align: align})
		if err != nil {
			status.SetText("Error: " + err.Error())
			return
		}
		p, _ := d.Placement()
		status.SetText(fmt.Sprintf("%s at left %g, top %g, width %g", d.ID(), p.Left, p.Top, p.Width))
		redraw()
	})
	clearButton := widget.NewButton("Remove all", func() {
		if session == nil {
			return
		}
		session.Drops.RemoveAll()
		status.SetText("drops removed")
		redraw()
	})

	urlEntry := widget.NewEntry()
	urlEntry.SetPlaceHolder("page.html or https://example.com")
	urlEntry.OnSubmitted = func(uri string) {
		status.SetText("Loading " + uri + "...")
		go func() {
			markup, err := resource.Load(uri)
			fyne.Do(func() {
				if err != nil {
					status.SetText("Error: " + err.Error())
					return
				}
				s, err := resource.NewSession(markup, resource.Options{
					Viewport: geom.Size{Width: viewWidth, Height: viewHeight},
					Logger:   logger,
				})
				if err != nil {
					status.SetText("Error: " + err.Error())
					return
				}
				session = s
				scroll.SetValue(scroll.Max)
				redraw()
				status.SetText(uri)
				w.SetTitle("dropview - " + uri)
			})
		}()
	}

	dropBar := container.NewGridWithColumns(5, anchorEntry, contentEntry, alignEntry, addButton, clearButton)
	topBar := container.NewVBox(urlEntry, dropBar)
	content := container.NewBorder(topBar, status, nil, scroll, canvasImg)
	w.SetContent(content)

	w.Canvas().Focus(urlEntry)
	if len(os.Args) > 1 {
		urlEntry.SetText(os.Args[1])
		urlEntry.OnSubmitted(os.Args[1])
	}
	w.ShowAndRun()
}
