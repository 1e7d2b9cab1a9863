package model

import "fmt"

// Duty is the daily assignment of a vehicle.
type Duty int

const (
	DutyService Duty = iota
	DutyMaintenance
	DutyStandby
)

// Duties lists all duties in canonical order.
var Duties = [...]Duty{DutyService, DutyMaintenance, DutyStandby}

// String returns the upper-case duty name.
func (d Duty) String() string {
	switch d {
	case DutyService:
		return "SERVICE"
	case DutyMaintenance:
		return "MAINTENANCE"
	case DutyStandby:
		return "STANDBY"
	default:
		return "unknown"
	}
}

// ParseDuty converts a duty name into a Duty.
func ParseDuty(s string) (Duty, error) {
	switch s {
	case "SERVICE":
		return DutyService, nil
	case "MAINTENANCE":
		return DutyMaintenance, nil
	case "STANDBY":
		return DutyStandby, nil
	default:
		return 0, fmt.Errorf("unknown duty %q", s)
	}
}

func (d Duty) MarshalText() ([]byte, error) {
	if d < DutyService || d > DutyStandby {
		return nil, fmt.Errorf("invalid duty %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Duty) UnmarshalText(b []byte) error {
	v, err := ParseDuty(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
