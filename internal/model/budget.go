package model

// BudgetLevel classifies how much of a budget has been consumed.
type BudgetLevel int

const (
	BudgetOK BudgetLevel = iota
	BudgetWarn
	BudgetHigh
	BudgetOver
)

// BudgetStats holds the derived figures shown next to a budget row.
type BudgetStats struct {
	Planned   float64
	Spent     float64
	Remaining float64
	Progress  float64 // 0.0-1.0, clamped
	Level     BudgetLevel
}

// Progress returns spent/planned clamped to [0, 1].
// A zero or negative plan counts as fully used once anything is spent.
func Progress(spent, planned float64) float64 {
	if planned <= 0 {
		if spent > 0 {
			return 1
		}
		return 0
	}
	p := spent / planned
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// LevelFor classifies a raw (unclamped) spent/planned ratio.
func LevelFor(spent, planned float64) BudgetLevel {
	if planned <= 0 {
		if spent > 0 {
			return BudgetOver
		}
		return BudgetOK
	}
	ratio := spent / planned
	switch {
	case ratio > 1:
		return BudgetOver
	case ratio >= 0.9:
		return BudgetHigh
	case ratio >= 0.7:
		return BudgetWarn
	default:
		return BudgetOK
	}
}

// ComputeBudget derives the budget figures for planned and spent amounts.
func ComputeBudget(planned, spent float64) BudgetStats {
	return BudgetStats{
		Planned:   planned,
		Spent:     spent,
		Remaining: planned - spent,
		Progress:  Progress(spent, planned),
		Level:     LevelFor(spent, planned),
	}
}

// BudgetFromRow reads the planned and spent amounts of a budget row.
func BudgetFromRow(r Row, plannedField, spentField string) (BudgetStats, bool) {
	planned, ok := r.Float(plannedField)
	if !ok {
		return BudgetStats{}, false
	}
	spent, _ := r.Float(spentField)
	return ComputeBudget(planned, spent), true
}
