// Package reports renders balance data for people: a unit workbook, a yearly
// employee statement and a unit summary.
package reports

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"hourbank/internal/domain/auth"
	"hourbank/internal/domain/balance"
	"hourbank/internal/domain/errs"
	"hourbank/internal/domain/ledger"
	"hourbank/internal/domain/overtime"
	"hourbank/internal/domain/personnel"
)

type Service struct {
	overtime  *overtime.Service
	employees *personnel.Service
}

func NewService(ot *overtime.Service, employees *personnel.Service) *Service {
	return &Service{overtime: ot, employees: employees}
}

type UnitSummary struct {
	UnitID             string  `json:"unitId"`
	Year               int     `json:"year"`
	Month              int     `json:"month"`
	Employees          int     `json:"employees"`
	WorkedHours        float64 `json:"workedHours"`
	OvertimeHours      float64 `json:"overtimeHours"`
	DeficitHours       float64 `json:"deficitHours"`
	NetBalanceHours    float64 `json:"netBalanceHours"`
	PayableOvertime    float64 `json:"payableOvertimeHours"`
	EmployeesInDeficit int     `json:"employeesInDeficit"`
}

// Summarize aggregates one period's rows. Payable overtime weights each row's
// overtime by the pay percentage captured with it.
func Summarize(unitID string, period balance.Period, rows []balance.PeriodBalance) UnitSummary {
	s := UnitSummary{UnitID: unitID, Year: period.Year, Month: period.Month, Employees: len(rows)}
	for _, r := range rows {
		s.WorkedHours += r.WorkedHours
		s.OvertimeHours += r.OvertimeHours
		s.DeficitHours += r.DeficitHours
		s.NetBalanceHours += r.BalanceHours
		s.PayableOvertime += r.OvertimeHours * r.OvertimePayPercent / 100
		if r.BalanceHours < 0 {
			s.EmployeesInDeficit++
		}
	}
	return s
}

func (s *Service) UnitSummary(ctx context.Context, p *auth.Principal, unitID string, period balance.Period) (UnitSummary, error) {
	rows, err := s.overtime.UnitBalances(ctx, p, unitID, period)
	if err != nil {
		return UnitSummary{}, err
	}
	return Summarize(unitID, period, rows), nil
}

var unitHeaders = []string{"Employee ID", "Name", "Worked", "Standard", "Overtime", "Deficit", "Carried", "Balance", "Overtime Pay %", "Closed"}

func (s *Service) UnitWorkbook(ctx context.Context, p *auth.Principal, unitID string, period balance.Period) ([]byte, error) {
	rows, err := s.overtime.UnitBalances(ctx, p, unitID, period)
	if err != nil {
		return nil, err
	}
	names, err := s.unitNames(ctx, unitID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := period.String()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for col, header := range unitHeaders {
		if err := setCell(f, sheet, col+1, 1, header); err != nil {
			return nil, err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(unitHeaders), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i, r := range rows {
		values := []any{
			r.EmployeeID, names[r.EmployeeID], r.WorkedHours, r.StandardHours, r.OvertimeHours,
			r.DeficitHours, r.CarriedFromPrevious, r.BalanceHours, r.OvertimePayPercent, r.Closed,
		}
		for col, v := range values {
			if err := setCell(f, sheet, col+1, i+2, v); err != nil {
				return nil, err
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) Statement(ctx context.Context, p *auth.Principal, employeeID string, year int) ([]byte, error) {
	if year < 1 || year > 9999 {
		return nil, errs.Validation("reports.statement", "invalid year")
	}
	rows, err := s.overtime.GetBalances(ctx, p, employeeID, ledger.Filter{Year: &year})
	if err != nil {
		return nil, err
	}
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period().Before(rows[j].Period()) })

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Hour Balance Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", emp.DisplayName()))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Unit: %s", emp.UnitID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Year: %d", year))
	pdf.Ln(10)

	widths := []float64{22, 26, 26, 26, 26, 26, 18}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Period", "Worked", "Standard", "Overtime", "Deficit", "Balance", "Closed"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		closed := "no"
		if r.Closed {
			closed = "yes"
		}
		cells := []string{
			r.Period().String(),
			fmt.Sprintf("%.2f", r.WorkedHours),
			fmt.Sprintf("%.2f", r.StandardHours),
			fmt.Sprintf("%.2f", r.OvertimeHours),
			fmt.Sprintf("%.2f", r.DeficitHours),
			fmt.Sprintf("%.2f", r.BalanceHours),
			closed,
		}
		for i, c := range cells {
			align := "R"
			if i == 0 || i == len(cells)-1 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(rows) == 0 {
		pdf.Cell(0, 8, "No balances recorded for this year.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render statement: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) unitNames(ctx context.Context, unitID string) (map[string]string, error) {
	employees, err := s.employees.List(ctx, unitID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.DisplayName()
	}
	return names, nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}
