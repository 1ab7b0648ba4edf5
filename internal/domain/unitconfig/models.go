package unitconfig

import (
	"encoding/json"
	"time"
)

const (
	DefaultStandardMonthlyHours = 180
	DefaultOvertimePayPercent   = 70
)

type Config struct {
	UnitID               string    `json:"unitId"`
	StandardMonthlyHours float64   `json:"standardMonthlyHours"`
	OvertimePayPercent   float64   `json:"overtimePayPercent"`
	UpdatedAt            time.Time `json:"updatedAt,omitempty"`
}

type Source int

const (
	SourceStored Source = iota + 1
	SourceDefault
)

// Lookup is the result of reading a unit's policy: either a stored row or the
// synthesized default. The default is never persisted.
type Lookup struct {
	Config Config
	Source Source
}

func Found(cfg Config) Lookup {
	return Lookup{Config: cfg, Source: SourceStored}
}

func Default(unitID string, defaults Defaults) Lookup {
	return Lookup{
		Config: Config{
			UnitID:               unitID,
			StandardMonthlyHours: defaults.StandardMonthlyHours,
			OvertimePayPercent:   defaults.OvertimePayPercent,
		},
		Source: SourceDefault,
	}
}

func (l Lookup) IsDefault() bool {
	return l.Source == SourceDefault
}

type lookupJSON struct {
	UnitID               string  `json:"unitId"`
	StandardMonthlyHours float64 `json:"standardMonthlyHours"`
	OvertimePayPercent   float64 `json:"overtimePayPercent"`
	IsDefault            bool    `json:"isDefault"`
}

func (l Lookup) MarshalJSON() ([]byte, error) {
	return json.Marshal(lookupJSON{
		UnitID:               l.Config.UnitID,
		StandardMonthlyHours: l.Config.StandardMonthlyHours,
		OvertimePayPercent:   l.Config.OvertimePayPercent,
		IsDefault:            l.IsDefault(),
	})
}

type Defaults struct {
	StandardMonthlyHours float64
	OvertimePayPercent   float64
}

func StandardDefaults() Defaults {
	return Defaults{
		StandardMonthlyHours: DefaultStandardMonthlyHours,
		OvertimePayPercent:   DefaultOvertimePayPercent,
	}
}
