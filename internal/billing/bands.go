package billing

import "fmt"

// PriceBand описывает непрерывный диапазон номеров слотов дополнительных
// пользователей с единой ценой за слот. To == nil означает диапазон,
// открытый сверху; такой диапазон может быть только последним.
type PriceBand struct {
	From         int     `json:"from"`
	To           *int    `json:"to"`
	PricePerUser float64 `json:"price_per_user"`
}

// Contains сообщает, попадает ли номер слота n в диапазон.
func (b PriceBand) Contains(n int) bool {
	if n < b.From {
		return false
	}
	return b.To == nil || n <= *b.To
}

// ValidateBands проверяет последовательность диапазонов на этапе записи:
// возрастание, смежность (tiers[i].To+1 == tiers[i+1].From), отсутствие
// пересечений, неотрицательные цены. Пустой список допустим и означает
// единую плоскую ставку плана.
func ValidateBands(bands []PriceBand) error {
	for i, b := range bands {
		if b.From < 1 {
			return fmt.Errorf("%w: band %d starts below 1", ErrMalformedBands, i)
		}
		if b.PricePerUser < 0 {
			return fmt.Errorf("%w: band %d has negative price", ErrMalformedBands, i)
		}
		if b.To != nil && *b.To < b.From {
			return fmt.Errorf("%w: band %d is inverted", ErrMalformedBands, i)
		}
		if b.To == nil && i != len(bands)-1 {
			return fmt.Errorf("%w: open-ended band %d is not last", ErrMalformedBands, i)
		}
		if i > 0 {
			prev := bands[i-1]
			if prev.To == nil || *prev.To+1 != b.From {
				return fmt.Errorf("%w: bands %d and %d are not contiguous", ErrMalformedBands, i-1, i)
			}
		}
	}
	return nil
}
