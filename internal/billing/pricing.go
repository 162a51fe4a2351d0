package billing

// CalculateTieredAddonCost считает суммарную стоимость покупки delta
// дополнительных пользовательских слотов при уже купленных existing.
// Новым слотам присваиваются последовательные номера existing+1..existing+delta,
// для каждого номера берётся цена первого диапазона, в который он попадает.
// Пустой список диапазонов означает плоскую ставку flatRate за каждый слот.
//
// Слот, не попавший ни в один диапазон, означает дефект конфигурации
// плана и приводит к ErrTierGap: молчаливое начисление нуля скрывало бы
// ошибку в данных.
func CalculateTieredAddonCost(existing, delta int, bands []PriceBand, flatRate float64) (float64, error) {
	if existing < 0 || delta < 0 {
		return 0, ErrInvalidCount
	}
	if delta == 0 {
		return 0, nil
	}
	if len(bands) == 0 {
		return float64(delta) * flatRate, nil
	}

	var total float64
	for slot := existing + 1; slot <= existing+delta; slot++ {
		price, ok := priceForSlot(slot, bands)
		if !ok {
			return 0, ErrTierGap
		}
		total += price
	}
	return total, nil
}

// priceForSlot возвращает цену первого диапазона, содержащего номер слота.
// Диапазоны просматриваются в порядке следования, первый совпавший выигрывает.
func priceForSlot(n int, bands []PriceBand) (float64, bool) {
	for _, b := range bands {
		if b.Contains(n) {
			return b.PricePerUser, true
		}
	}
	return 0, false
}
