// internal/services/application/calculate-projected-return/models.go
package calculateprojectedreturn

// Tiers are the preset investment amounts offered as quick-select options.
var Tiers = []int64{25000, 50000, 100000, 250000, 500000}

// Durations are the accepted investment terms in months.
var Durations = []int{3, 6, 12}

// Quote is the projected outcome of an investment.
type Quote struct {
	Amount          int64   `json:"amount"`
	Duration        int     `json:"duration"`
	MonthlyRate     float64 `json:"monthlyRate"`
	ProjectedReturn int64   `json:"projectedReturn"`
	Profit          int64   `json:"profit"`
}
