package entity

// TyreInspection хранит итог проверки одного фото шины.
type TyreInspection struct {
	ImageWidth  int                 // ширина изображения
	ImageHeight int                 // высота изображения
	Verdict     PlausibilityVerdict // похоже ли фото на шину
	Wear        *WearResult         // nil, если фото отклонено или анализ не удался
	WearErr     error               // причина, по которой Wear отсутствует
}

// Accepted сообщает, что классификатор принял фото.
func (t *TyreInspection) Accepted() bool {
	return t.Verdict.Passed
}

// Description содержит текстовый отчёт по проверке.
type Description struct {
	Title string
	Text  string
}
