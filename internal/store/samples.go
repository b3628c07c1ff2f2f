package store

import (
	"time"

	"expenses/internal/core"
)

// SampleDrafts returns the demo data set. Most dates are whole days before
// now; five are fixed in February 2024 so they fall outside every window.
func SampleDrafts(now time.Time) []core.Draft {
	daysAgo := func(n int) time.Time { return now.Add(-time.Duration(n) * 24 * time.Hour) }
	fixed := func(day int) time.Time { return time.Date(2024, time.February, day, 0, 0, 0, 0, time.UTC).Local() }
	draft := func(desc, amount string, c core.Category, date time.Time, notes string) core.Draft {
		return core.Draft{
			Description: desc,
			Amount:      core.MustParseMoney(amount),
			Category:    c,
			Date:        date,
			Notes:       notes,
		}
	}

	return []core.Draft{
		draft("Grocery Shopping", "156.78", core.Food, daysAgo(1), "Weekly groceries from Whole Foods"),
		draft("Electric Bill", "89.99", core.Utilities, daysAgo(2), "Monthly electricity payment"),
		draft("Movie Night", "45.50", core.Entertainment, daysAgo(2), "Cinema tickets and snacks"),
		draft("Gas", "52.30", core.Transport, daysAgo(3), ""),
		draft("Internet Bill", "79.99", core.Utilities, daysAgo(4), "Monthly internet subscription"),
		draft("Restaurant Dinner", "98.45", core.Food, daysAgo(4), "Dinner with family"),
		draft("Bus Pass", "65.00", core.Transport, daysAgo(5), "Weekly transit pass"),
		draft("Concert Tickets", "150.00", core.Entertainment, daysAgo(5), "Rock concert tickets"),
		draft("Office Supplies", "34.99", core.Other, daysAgo(6), "Notebooks and pens"),
		draft("Water Bill", "45.67", core.Utilities, daysAgo(6), ""),
		draft("Coffee Shop", "12.50", core.Food, now, "Morning coffee and pastry"),
		draft("Gym Membership", "75.00", core.Other, now, "Monthly fitness subscription"),
		draft("Taxi Ride", "28.75", core.Transport, now, "Late night ride home"),
		draft("Phone Bill", "65.99", core.Utilities, daysAgo(3), "Monthly mobile plan"),
		draft("Pizza Delivery", "32.50", core.Food, daysAgo(1), ""),
		draft("Video Game", "59.99", core.Entertainment, fixed(8), "New release game"),
		draft("Car Wash", "25.00", core.Transport, fixed(5), ""),
		draft("Streaming Service", "15.99", core.Entertainment, fixed(1), "Monthly Netflix subscription"),
		draft("Haircut", "45.00", core.Other, fixed(9), ""),
		draft("Lunch Meeting", "42.75", core.Food, fixed(7), "Business lunch with clients"),
	}
}
