package domain

// Order — одна строка продажи (товар, количество, цена), загруженная из файла
// или из сообщения. После сохранения запись неизменяема.
type Order struct {
	// ID — идентификатор хранилища (uuid), присваивается при сохранении.
	ID string `json:"id,omitempty"`

	OrderID   string  `json:"orderId"`
	Customer  string  `json:"customer"`
	Date      string  `json:"date"` // дата заказа как пришла из файла, без парсинга
	Product   string  `json:"product"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// TotalAmount — сумма заказа. Считается на чтении, в БД не хранится.
func (o *Order) TotalAmount() float64 {
	return float64(o.Quantity) * o.UnitPrice
}
