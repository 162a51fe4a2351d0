package billing

import "errors"

// Ошибки расчётного ядра. Сервисный слой проверяет их через errors.Is
// и превращает в структурированные ответы API.
var (
	// ErrInvalidTierKind неизвестное имя тарифного уровня.
	ErrInvalidTierKind = errors.New("invalid tier kind")
	// ErrInvalidLimitValue отрицательное значение лимита или счётчика.
	ErrInvalidLimitValue = errors.New("invalid limit value")
	// ErrInvalidCount некорректное количество покупаемых слотов.
	ErrInvalidCount = errors.New("invalid addon user count")
	// ErrMalformedBands ценовые диапазоны пересекаются или не смежны.
	ErrMalformedBands = errors.New("malformed price bands")
	// ErrTierGap номер слота не попал ни в один диапазон.
	ErrTierGap = errors.New("slot number falls into a gap between price bands")
)
