package attendance

import (
	"sort"
	"time"

	"github.com/attendly-hq/attendly-backend-go/internal/domain/attendance"
	"github.com/attendly-hq/attendly-backend-go/internal/domain/policy"
)

// pairSessions pairs each check-in with the earliest not-yet-consumed
// check-out occurring after it and sums the elapsed minutes. It operates on a
// sorted copy of the event log; each check-out is consumed at most once.
// The returned open event is the latest check-in left without a check-out.
func pairSessions(events []attendance.Event) (grossMinutes int, open *attendance.Event) {
	sorted := make([]attendance.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var checkIns, checkOuts []attendance.Event
	for _, ev := range sorted {
		switch ev.Type {
		case attendance.EventCheckIn:
			checkIns = append(checkIns, ev)
		case attendance.EventCheckOut:
			checkOuts = append(checkOuts, ev)
		}
	}

	out := 0
	for i := range checkIns {
		in := checkIns[i]
		for out < len(checkOuts) && !checkOuts[out].Timestamp.After(in.Timestamp) {
			out++
		}
		if out == len(checkOuts) {
			open = &checkIns[i]
			break
		}
		grossMinutes += int(checkOuts[out].Timestamp.Sub(in.Timestamp).Minutes())
		out++
	}

	return grossMinutes, open
}

// sumBreakMinutes sums closed break segments by type. Open segments are
// excluded; their duration is not known yet.
func sumBreakMinutes(breaks []attendance.BreakSegment) (breakMinutes, lunchMinutes int) {
	for _, b := range breaks {
		if b.DurationMinutes == nil {
			continue
		}
		switch b.Type {
		case attendance.BreakTypeLunch:
			lunchMinutes += *b.DurationMinutes
		default:
			breakMinutes += *b.DurationMinutes
		}
	}
	if breakMinutes < 0 {
		breakMinutes = 0
	}
	if lunchMinutes < 0 {
		lunchMinutes = 0
	}
	return breakMinutes, lunchMinutes
}

// ComputeDayTotals derives the four persisted totals for a day from its raw
// event log and break segments. Work minutes never go below zero; overtime is
// whatever exceeds the policy threshold, capped at the policy maximum.
func ComputeDayTotals(events []attendance.Event, breaks []attendance.BreakSegment, pol policy.WorkPolicy) attendance.DayTotals {
	gross, _ := pairSessions(events)
	breakMins, lunchMins := sumBreakMinutes(breaks)

	work := gross - breakMins - lunchMins
	if work < 0 {
		work = 0
	}

	overtime := 0
	if work > pol.OvertimeThresholdMinutes {
		overtime = work - pol.OvertimeThresholdMinutes
		if overtime > pol.MaxOvertimeMinutes {
			overtime = pol.MaxOvertimeMinutes
		}
	}

	return attendance.DayTotals{
		WorkMinutes:  work,
		BreakMinutes: breakMins,
		LunchMinutes: lunchMins,
		OvertimeMins: overtime,
	}
}

// liveTotals computes display totals while a session is still open: the open
// session is counted up to now, and an open break accrues against the break
// totals without being persisted.
func liveTotals(events []attendance.Event, breaks []attendance.BreakSegment, pol policy.WorkPolicy, now time.Time) attendance.DayTotals {
	gross, open := pairSessions(events)
	if open != nil && now.After(open.Timestamp) {
		gross += int(now.Sub(open.Timestamp).Minutes())
	}

	breakMins, lunchMins := sumBreakMinutes(breaks)
	for _, b := range breaks {
		if !b.IsOpen() || !now.After(b.StartTime) {
			continue
		}
		elapsed := int(now.Sub(b.StartTime).Minutes())
		if b.Type == attendance.BreakTypeLunch {
			lunchMins += elapsed
		} else {
			breakMins += elapsed
		}
	}

	work := gross - breakMins - lunchMins
	if work < 0 {
		work = 0
	}

	overtime := 0
	if work > pol.OvertimeThresholdMinutes {
		overtime = work - pol.OvertimeThresholdMinutes
		if overtime > pol.MaxOvertimeMinutes {
			overtime = pol.MaxOvertimeMinutes
		}
	}

	return attendance.DayTotals{
		WorkMinutes:  work,
		BreakMinutes: breakMins,
		LunchMinutes: lunchMins,
		OvertimeMins: overtime,
	}
}
