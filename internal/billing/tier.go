// Package billing содержит чистую расчётную логику тарификации:
// порядок тарифных уровней, ступенчатую стоимость дополнительных
// пользователей, агрегацию лимитов и оценку потребления ресурсов.
// Пакет не выполняет I/O, все функции детерминированы.
package billing

import "fmt"

// Tier определяет тарифный уровень плана подписки.
type Tier string

// Поддерживаемые тарифные уровни, упорядочены по возрастанию.
const (
	TierFree       Tier = "free"
	TierBasic      Tier = "basic"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// tierOrder задаёт полный порядок уровней: free < basic < premium < enterprise.
var tierOrder = map[Tier]int{
	TierFree:       0,
	TierBasic:      1,
	TierPremium:    2,
	TierEnterprise: 3,
}

// ParseTier проверяет строковое имя уровня и возвращает типизированный Tier.
// Неизвестное имя приводит к ErrInvalidTierKind.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierOrder[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTierKind, s)
	}
	return t, nil
}

// PlanChange описывает результат сравнения текущего и целевого уровней.
type PlanChange string

// Возможные результаты классификации смены плана.
const (
	ChangeSame      PlanChange = "SAME"
	ChangeUpgrade   PlanChange = "UPGRADE"
	ChangeDowngrade PlanChange = "DOWNGRADE"
)

// Classify сравнивает текущий и целевой уровни по фиксированному порядку.
// Возвращает ErrInvalidTierKind, если один из уровней неизвестен.
func Classify(current, target Tier) (PlanChange, error) {
	cur, ok := tierOrder[current]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTierKind, current)
	}
	tgt, ok := tierOrder[target]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTierKind, target)
	}
	switch {
	case tgt > cur:
		return ChangeUpgrade, nil
	case tgt < cur:
		return ChangeDowngrade, nil
	default:
		return ChangeSame, nil
	}
}
