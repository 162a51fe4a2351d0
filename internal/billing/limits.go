package billing

import "fmt"

// PlanLimits базовые лимиты ресурсов тарифного плана.
type PlanLimits struct {
	MaxStudents  int `json:"max_students"`
	MaxStaff     int `json:"max_staff"`
	MaxStorageGB int `json:"max_storage_gb"`
}

// EffectiveLimits итоговые потолки ресурсов арендатора с учётом
// купленных дополнительных пользователей.
type EffectiveLimits struct {
	MaxUsers     int `json:"max_users"`
	MaxStorageGB int `json:"max_storage_gb"`
}

// ComputeEffectiveLimits складывает базовые лимиты плана с купленными
// дополнительными пользователями: maxUsers = students + staff + addons.
// Дополнительные пользователи не влияют на потолок хранилища.
// Отрицательные значения на входе приводят к ErrInvalidLimitValue.
func ComputeEffectiveLimits(limits PlanLimits, addonUsers int) (EffectiveLimits, error) {
	if limits.MaxStudents < 0 || limits.MaxStaff < 0 || limits.MaxStorageGB < 0 {
		return EffectiveLimits{}, fmt.Errorf("%w: negative plan limit", ErrInvalidLimitValue)
	}
	if addonUsers < 0 {
		return EffectiveLimits{}, fmt.Errorf("%w: negative addon users", ErrInvalidLimitValue)
	}
	return EffectiveLimits{
		MaxUsers:     limits.MaxStudents + limits.MaxStaff + addonUsers,
		MaxStorageGB: limits.MaxStorageGB,
	}, nil
}
