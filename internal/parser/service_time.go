package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LabelPrecedence decides which service time label is read when a message
// carries both.
type LabelPrecedence int

const (
	// PickupFirst reads "pickup time" before "delivery time".
	PickupFirst LabelPrecedence = iota
	// DeliveryFirst reads "delivery time" before "pickup time".
	DeliveryFirst
)

const (
	pickupTimeLabel   = "pickup time"
	deliveryTimeLabel = "delivery time"
)

var serviceTimePattern = regexp.MustCompile(`(?i)^(?:[a-z]+,?\s+)?(\d{1,2})/(\d{1,2})/(\d{4})\s+at\s+(\d{1,2})(?::(\d{2}))?\s*([ap]m)$`)

func (p LabelPrecedence) labels() []string {
	if p == DeliveryFirst {
		return []string{deliveryTimeLabel, pickupTimeLabel}
	}
	return []string{pickupTimeLabel, deliveryTimeLabel}
}

// ExtractServiceTime reads the line after the service time label, e.g.
// "Friday 1/9/2026 at 10:45am", as wall-clock time in loc. Any malformed or
// out-of-range component yields nil, as does a wall-clock time skipped by a
// daylight saving transition in loc.
func ExtractServiceTime(lines Lines, loc *time.Location, precedence LabelPrecedence) *time.Time {
	for _, label := range precedence.labels() {
		idx := lines.Find(0, label)
		if idx < 0 {
			continue
		}
		next := lines.NextNonBlank(idx)
		if next < 0 {
			return nil
		}
		return parseServiceTime(lines[next], loc)
	}
	return nil
}

func parseServiceTime(line string, loc *time.Location) *time.Time {
	m := serviceTimePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute := 0
	if m[5] != "" {
		minute, _ = strconv.Atoi(m[5])
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return nil
	}
	if month < 1 || month > 12 {
		return nil
	}

	switch strings.ToLower(m[6]) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if loc == nil {
		loc = time.UTC
	}
	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return nil
	}
	if t.Hour() != hour || t.Minute() != minute {
		return nil
	}
	return &t
}
