package anomaly

import (
	"encoding/json"
	"fmt"
)

// Payload is the typed detection detail stored in the event's data column.
// Each rule type carries its own variant; the column itself stays generic.
type Payload interface {
	anomalyPayload()
}

type LateCheckInData struct {
	Count      int    `json:"count"`
	Threshold  int    `json:"threshold"`
	WindowDays int    `json:"window_days"`
	LateAfter  string `json:"late_after"` // "15:04:05"
}

type MissingCheckOutData struct {
	Date        string `json:"date"`
	LastCheckIn string `json:"last_check_in"`
}

type ExcessiveBreakData struct {
	Date              string `json:"date"`
	TotalBreakMinutes int    `json:"total_break_minutes"`
	AllowedMinutes    int    `json:"allowed_minutes"`
	BreakID           string `json:"break_id,omitempty"`
}

type TimesheetMismatchData struct {
	Date              string  `json:"date"`
	AttendanceMinutes int     `json:"attendance_minutes"`
	TimesheetMinutes  int     `json:"timesheet_minutes"`
	DeviationPercent  float64 `json:"deviation_percent"`
}

type GeofenceFailureData struct {
	WorkMode  string   `json:"work_mode"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (LateCheckInData) anomalyPayload()       {}
func (MissingCheckOutData) anomalyPayload()   {}
func (ExcessiveBreakData) anomalyPayload()    {}
func (TimesheetMismatchData) anomalyPayload() {}
func (GeofenceFailureData) anomalyPayload()   {}

// DecodePayload unmarshals a persisted data column into the variant matching
// the event type.
func DecodePayload(t Type, raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var p Payload
	switch t {
	case TypeRepeatedLateCheckIn:
		p = &LateCheckInData{}
	case TypeMissingCheckOut:
		p = &MissingCheckOutData{}
	case TypeExcessiveBreak:
		p = &ExcessiveBreakData{}
	case TypeTimesheetMismatch:
		p = &TimesheetMismatchData{}
	case TypeGeofenceFailure:
		p = &GeofenceFailureData{}
	default:
		return nil, fmt.Errorf("unknown anomaly type %q", t)
	}

	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return p, nil
}
