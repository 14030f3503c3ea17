package pet

import (
	"fmt"
	"time"
)

// AgeAt derives the display age from the birth date at the given reference
// time: months while the pet is under one year, whole years afterwards. A
// birthday not yet reached this year decrements the year count. Returns nil
// when no birth date is recorded.
func (p *Pet) AgeAt(now time.Time) *string {
	if p.birthDate == nil {
		return nil
	}
	b := *p.birthDate

	years := now.Year() - b.Year()
	monthsDiff := int(now.Month()) - int(b.Month())
	if monthsDiff < 0 || (monthsDiff == 0 && now.Day() < b.Day()) {
		years--
	}

	if years == 0 {
		months := (now.Year()-b.Year())*12 + monthsDiff
		if now.Day() < b.Day() {
			months--
		}
		var age string
		if months > 0 {
			age = fmt.Sprintf("%d Aylık", months)
		} else {
			age = "Yeni Doğan"
		}
		return &age
	}

	age := fmt.Sprintf("%d Yaşında", years)
	return &age
}

// Age derives the display age relative to the current time.
func (p *Pet) Age() *string {
	return p.AgeAt(time.Now())
}
