package personnel

import "time"

type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname"`
	NationalID string    `json:"nationalId"`
	UnitID     string    `json:"unitId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e Employee) DisplayName() string {
	if e.Surname == "" {
		return e.Name
	}
	return e.Name + " " + e.Surname
}

type NewEmployee struct {
	Name       string `json:"name" validate:"required,max=120"`
	Surname    string `json:"surname" validate:"required,max=120"`
	NationalID string `json:"nationalId" validate:"required,max=32"`
	UnitID     string `json:"unitId" validate:"required,max=64"`
}
