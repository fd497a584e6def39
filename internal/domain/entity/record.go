package entity

// Record — строка таблицы: метка и базовое имя файла изображения
type Record struct {
	Label string // значение колонки "Label"
	Loc   string // значение колонки "Loc"
}
