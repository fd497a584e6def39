// Package fyneview показывает аннотированные снимки в окне fyne.
// Драйвер fyne можно запустить один раз за процесс, поэтому Show только
// ставит снимок в очередь, а Run открывает окно и листает очередь по нажатию клавиши.
// Сборка с тегом headless обходится без fyne, X11 и OpenGL.
package fyneview

import "ish-detector/internal/domain/port"

const AppID = "org.ish.detector"

var _ port.Display = (*Window)(nil)
