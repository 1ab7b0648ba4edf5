package timeentry

import "time"

type Entry struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	WorkDate    time.Time `json:"workDate"`
	Hours       float64   `json:"hours"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Filter struct {
	Year  int
	Month int
}

const MaxHoursPerEntry = 24
