package svm

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Форматы файлов модели
const (
	FormatAuto   = "auto"
	FormatLibSVM = "libsvm"
	FormatOpenCV = "opencv"
)

// Load загружает модель; для FormatAuto формат определяется по расширению (.xml — OpenCV)
func Load(path, format, name string) (*Model, error) {
	if format == "" || format == FormatAuto {
		format = FormatLibSVM
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			format = FormatOpenCV
		}
	}

	switch format {
	case FormatLibSVM:
		return LoadLibSVM(path)
	case FormatOpenCV:
		return LoadOpenCV(path, name)
	default:
		return nil, fmt.Errorf("%w: model format %q", ErrUnsupportedModel, format)
	}
}
