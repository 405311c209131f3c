package task

import "time"

// Fixtures returns a realistic sample list with ids derived from now.
// Deadlines are spread around now so every deadline sort has work to do.
func Fixtures(now time.Time) []Task {
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format(DateLayout)
	}

	base := now.UnixMilli()
	fixtures := []Task{
		{
			Title:    "Write quarterly report",
			Summary:  "Numbers from finance are in the shared folder",
			State:    InProgress,
			Deadline: day(3),
		},
		{
			Title:    "Renew passport",
			Summary:  "",
			State:    NotDone,
			Deadline: day(30),
		},
		{
			Title:    "Book dentist appointment",
			Summary:  "Ask for a morning slot",
			State:    Done,
			Deadline: day(-2),
		},
		{
			Title:   "Read the new style guide",
			Summary: "Skim section 4 first",
			State:   NotDone,
		},
		{
			Title:    "Fix leaking kitchen tap",
			Summary:  "Washer size is 1/2 inch",
			Deadline: day(7),
		},
		{
			Title:    "Plan team offsite",
			Summary:  "Three venues shortlisted, waiting on quotes",
			State:    InProgress,
			Deadline: day(14),
		},
	}

	for i := range fixtures {
		fixtures[i].ID = base + int64(i)
	}
	return fixtures
}
