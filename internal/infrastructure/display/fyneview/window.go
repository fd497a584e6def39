//go:build !headless
// +build !headless

package fyneview

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
)


type frame struct {
	title string
	img   image.Image
}

type Window struct {
	app  fyne.App
	size float32

	mu     sync.Mutex
	frames []frame
	pos    int
}

// Open создаёт приложение fyne и очередь показа; size — сторона окна в точках
func Open(size int) (*Window, error) {
	return newWindow(app.NewWithID(AppID), size), nil
}

func newWindow(a fyne.App, size int) *Window {
	return &Window{app: a, size: float32(size)}
}

func (w *Window) Show(title string, img image.Image) error {
	w.mu.Lock()
	w.frames = append(w.frames, frame{title: title, img: img})
	w.mu.Unlock()
	return nil
}

// Pending возвращает число ещё не показанных снимков
func (w *Window) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.frames) - w.pos
}

// Run показывает снимки по одному и блокируется до закрытия окна.
// Любая клавиша переключает на следующий снимок, после последнего окно закрывается.
func (w *Window) Run() {
	first, ok := w.next()
	if !ok {
		return
	}

	win := w.app.NewWindow(first.title)
	img := canvas.NewImageFromImage(first.img)
	img.FillMode = canvas.ImageFillContain
	win.SetContent(img)
	win.Resize(fyne.NewSize(w.size, w.size))

	win.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) {
		f, ok := w.next()
		if !ok {
			w.app.Quit()
			return
		}
		win.SetTitle(f.title)
		img.Image = f.img
		img.Refresh()
	})

	win.ShowAndRun()
}

func (w *Window) next() (frame, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pos >= len(w.frames) {
		return frame{}, false
	}
	f := w.frames[w.pos]
	w.pos++
	return f, true
}
