package billing

import "math"

// Severity уровень серьёзности заполнения ресурса.
type Severity string

// Пороговые уровни фиксированы политикой платформы и не настраиваются
// на уровне плана.
const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

const (
	warningThresholdPct  = 75
	criticalThresholdPct = 90
)

// Snapshot текущее потребление арендатора. Вычисляется заново на каждый
// запрос и никогда не кэшируется между оценками.
type Snapshot struct {
	CurrentStudents int `json:"current_students"`
	CurrentStaff    int `json:"current_staff"`
	StorageUsedGB   int `json:"storage_used_gb"`
}

// ResourceUsage результат оценки одного ресурса.
type ResourceUsage struct {
	Used     int      `json:"used"`
	Limit    int      `json:"limit"`
	UsedPct  int      `json:"used_pct"`
	Severity Severity `json:"severity"`
}

// Report отчёт о потреблении по отслеживаемым ресурсам.
// Ученики и сотрудники считаются единым ресурсом "users" против общего
// потолка: раздельные потолки план хранит, но предупреждения строятся
// по сумме.
type Report struct {
	Users   ResourceUsage `json:"users"`
	Storage ResourceUsage `json:"storage"`
}

// EvaluateUsage сравнивает снимок потребления с итоговыми лимитами.
// Отрицательное потребление обнуляется, процент не превышает 100,
// деление на ноль исключено: при нулевом лимите занятость равна 100%
// при любом ненулевом потреблении и 0% иначе.
func EvaluateUsage(snap Snapshot, limits EffectiveLimits) Report {
	users := clampNonNegative(snap.CurrentStudents) + clampNonNegative(snap.CurrentStaff)
	storage := clampNonNegative(snap.StorageUsedGB)
	return Report{
		Users:   evaluateResource(users, limits.MaxUsers),
		Storage: evaluateResource(storage, limits.MaxStorageGB),
	}
}

func evaluateResource(used, limit int) ResourceUsage {
	var pct int
	switch {
	case limit > 0:
		pct = int(math.Round(100 * float64(used) / float64(limit)))
		if pct > 100 {
			pct = 100
		}
	case used > 0:
		pct = 100
	}
	return ResourceUsage{
		Used:     used,
		Limit:    limit,
		UsedPct:  pct,
		Severity: severityFor(pct),
	}
}

func severityFor(pct int) Severity {
	switch {
	case pct >= criticalThresholdPct:
		return SeverityCritical
	case pct >= warningThresholdPct:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
