package audio

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Daily makes Collections playable from At (time since midnight, local
// time) until the next daily entry.
type Daily struct {
	At          time.Duration
	Collections []string
}

// Special overrides the daily schedule between Start and End inclusive.
type Special struct {
	Start       time.Time
	End         time.Time
	Collections []string
}

// Schedule decides which song collections are playable at a given time.
type Schedule struct {
	Daily   []Daily
	Special []Special
}

// ParseTimeOfDay parses "HH:MM" into a time since midnight.
func ParseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("time of day %q: want HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Validate checks that daily entries are strictly increasing and that every
// special entry ends after it starts.
func (s Schedule) Validate() error {
	var errs []error
	for i := 1; i < len(s.Daily); i++ {
		if s.Daily[i].At <= s.Daily[i-1].At {
			errs = append(errs, fmt.Errorf("daily entry %d (%s) is not after entry %d (%s)",
				i, clock(s.Daily[i].At), i-1, clock(s.Daily[i-1].At)))
		}
	}
	for i, sp := range s.Special {
		if !sp.End.After(sp.Start) {
			errs = append(errs, fmt.Errorf("special entry %d ends at %s before it starts", i, sp.End.Format(time.DateTime)))
		}
	}
	return errors.Join(errs...)
}

// Referenced returns every collection named by the schedule, sorted.
func (s Schedule) Referenced() []string {
	var names []string
	for _, d := range s.Daily {
		names = append(names, d.Collections...)
	}
	for _, sp := range s.Special {
		names = append(names, sp.Collections...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// At returns the collections playable at t. A matching special entry wins;
// otherwise the last daily entry that started at or before t's time of day
// applies, with the first entry covering the early hours. An empty schedule
// allows every collection in all.
func (s Schedule) At(t time.Time, all []string) []string {
	for _, sp := range s.Special {
		if !t.Before(sp.Start) && !t.After(sp.End) {
			return sp.Collections
		}
	}
	if len(s.Daily) == 0 {
		return all
	}

	h, m, sec := t.Clock()
	sinceMidnight := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second
	i := 0
	for i < len(s.Daily)-1 && sinceMidnight >= s.Daily[i+1].At {
		i++
	}
	return s.Daily[i].Collections
}

func clock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
