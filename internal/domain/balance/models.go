package balance

import "time"

// PeriodHours is the aggregated worked time of one employee for one period, as
// delivered by the time entry feed.
type PeriodHours struct {
	Period      Period  `json:"period"`
	WorkedHours float64 `json:"workedHours"`
}

type PeriodBalance struct {
	EmployeeID          string    `json:"employeeId"`
	Year                int       `json:"year"`
	Month               int       `json:"month"`
	UnitID              string    `json:"unitId"`
	WorkedHours         float64   `json:"workedHours"`
	StandardHours       float64   `json:"standardHours"`
	OvertimeHours       float64   `json:"overtimeHours"`
	DeficitHours        float64   `json:"deficitHours"`
	BalanceHours        float64   `json:"balanceHours"`
	CarriedFromPrevious float64   `json:"carriedFromPrevious"`
	OvertimePayPercent  float64   `json:"overtimePayPercent"`
	Closed              bool      `json:"closed"`
	ComputedAt          time.Time `json:"computedAt"`
}

func (b PeriodBalance) Period() Period {
	return Period{Year: b.Year, Month: b.Month}
}
