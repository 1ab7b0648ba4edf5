package unitconfig

import (
	"math"
	"strings"

	"hourbank/internal/domain/errs"
)

func Validate(cfg Config) error {
	const op = "unitconfig.validate"
	if strings.TrimSpace(cfg.UnitID) == "" {
		return errs.Validation(op, "unitId is required")
	}
	if math.IsNaN(cfg.StandardMonthlyHours) || cfg.StandardMonthlyHours <= 0 || math.IsInf(cfg.StandardMonthlyHours, 0) {
		return errs.Validation(op, "standardMonthlyHours must be greater than 0")
	}
	if math.IsNaN(cfg.OvertimePayPercent) || cfg.OvertimePayPercent < 0 || cfg.OvertimePayPercent > 100 {
		return errs.Validation(op, "overtimePayPercent must be between 0 and 100")
	}
	return nil
}
