package servicecatalog

// Service модель услуги из каталога
type Service struct {
	ID       int64    `json:"id"`
	ChurchID int64    `json:"church_id"`
	Name     string   `json:"name"`
	Price    *float64 `json:"price"` // nil = цена не настроена
	Currency string   `json:"currency"`
	IsFree   bool     `json:"is_free"`
}

// HasPrice возвращает true, если для услуги настроена цена
func (s *Service) HasPrice() bool {
	return s.Price != nil
}

// ErrorResponse модель ошибки от каталога услуг
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
