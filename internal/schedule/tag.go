package schedule

import "time"

// Tag is a weekday symbol used in a habit's repeat days.
type Tag string

const (
	TagSunday    Tag = "S2"
	TagMonday    Tag = "M"
	TagTuesday   Tag = "T"
	TagWednesday Tag = "W"
	TagThursday  Tag = "T2"
	TagFriday    Tag = "F"
	TagSaturday  Tag = "S"
)

// tags is indexed by time.Weekday. This table is the only weekday-to-tag
// mapping in the codebase; everything else goes through WeekdayTag.
var tags = [7]Tag{
	time.Sunday:    TagSunday,
	time.Monday:    TagMonday,
	time.Tuesday:   TagTuesday,
	time.Wednesday: TagWednesday,
	time.Thursday:  TagThursday,
	time.Friday:    TagFriday,
	time.Saturday:  TagSaturday,
}

// WeekdayTag returns the tag for the calendar day of t.
func WeekdayTag(t time.Time) Tag {
	return tags[t.Weekday()]
}

// TagFor returns the tag for a weekday.
func TagFor(d time.Weekday) Tag {
	return tags[d]
}

// IsTag reports whether s is one of the seven weekday tags.
func IsTag(s string) bool {
	for _, t := range tags {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Tags returns the tags in Monday-first order, the order used by week views.
func Tags() []Tag {
	return []Tag{TagMonday, TagTuesday, TagWednesday, TagThursday, TagFriday, TagSaturday, TagSunday}
}
