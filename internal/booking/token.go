package booking

import (
	"strings"
	"time"
)

// Navigation tokens carry the whole conversation position inside the
// identifier the user taps, so no server-side session exists. Each stage's
// token accumulates every selection made so far and splits into a fixed
// number of fields; anything with the wrong shape is treated as stale or
// tampered input and parsed as a failure, never an error.

const tokenDelimiter = "_"

// TokenStage identifies which step of the booking flow a token encodes.
type TokenStage int

const (
	StageService TokenStage = iota + 1
	StageDate
	StagePeriod
	StageTime
)

// Period is a coarse day-part filter shown before exact time slots.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

// ParsePeriod validates a day-part string from a token.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case PeriodMorning, PeriodAfternoon, PeriodEvening:
		return Period(s), true
	}
	return "", false
}

// Token is the parsed form of a navigation token. Fields later than the
// token's stage are zero.
type Token struct {
	Stage     TokenStage
	ServiceID string
	Date      string // yyyy-mm-dd
	Period    Period
	Time      string // hh:mm, 24-hour
}

// ServiceToken encodes a service selection.
func ServiceToken(serviceID string) string {
	return strings.Join([]string{"service", serviceID}, tokenDelimiter)
}

// DateToken encodes a date selection carrying the chosen service.
func DateToken(date, serviceID string) string {
	return strings.Join([]string{"date", date, serviceID}, tokenDelimiter)
}

// PeriodToken encodes a day-part selection carrying date and service.
func PeriodToken(period Period, date, serviceID string) string {
	return strings.Join([]string{"period", string(period), date, serviceID}, tokenDelimiter)
}

// TimeToken encodes the final slot selection carrying date and service.
func TimeToken(hhmm, date, serviceID string) string {
	return strings.Join([]string{"time", hhmm, date, serviceID}, tokenDelimiter)
}

// ParseToken splits a raw identifier into a typed token. ok is false for
// unknown stage tags, wrong arity, or malformed fields; callers must drop
// such input silently.
func ParseToken(raw string) (Token, bool) {
	parts := strings.Split(raw, tokenDelimiter)
	switch parts[0] {
	case "service":
		if len(parts) != 2 || parts[1] == "" {
			return Token{}, false
		}
		return Token{Stage: StageService, ServiceID: parts[1]}, true
	case "date":
		if len(parts) != 3 || parts[2] == "" || !validDate(parts[1]) {
			return Token{}, false
		}
		return Token{Stage: StageDate, Date: parts[1], ServiceID: parts[2]}, true
	case "period":
		if len(parts) != 4 || parts[3] == "" || !validDate(parts[2]) {
			return Token{}, false
		}
		period, ok := ParsePeriod(parts[1])
		if !ok {
			return Token{}, false
		}
		return Token{Stage: StagePeriod, Period: period, Date: parts[2], ServiceID: parts[3]}, true
	case "time":
		if len(parts) != 4 || parts[3] == "" || !validDate(parts[2]) || !validClock(parts[1]) {
			return Token{}, false
		}
		return Token{Stage: StageTime, Time: parts[1], Date: parts[2], ServiceID: parts[3]}, true
	}
	return Token{}, false
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
