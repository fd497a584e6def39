package display

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"

	"github.com/disintegration/imaging"

	"ish-detector/internal/domain/port"
)

// unsafeName — символы, которые нельзя оставлять в имени файла
var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileDisplay сохраняет изображение в <Dir>/<title>_annotated.jpg
type FileDisplay struct {
	Dir string
}

func NewFileDisplay(dir string) *FileDisplay {
	return &FileDisplay{Dir: dir}
}

// Path возвращает путь файла для заголовка
func (d *FileDisplay) Path(title string) string {
	return filepath.Join(d.Dir, unsafeName.ReplaceAllString(title, "_")+"_annotated.jpg")
}

func (d *FileDisplay) Show(title string, img image.Image) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := imaging.Save(img, d.Path(title), imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("save %s: %w", title, err)
	}
	return nil
}

// None ничего не показывает
type None struct{}

func (None) Show(string, image.Image) error { return nil }

var (
	_ port.Display = (*FileDisplay)(nil)
	_ port.Display = None{}
)
