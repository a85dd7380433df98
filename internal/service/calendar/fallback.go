package calendar

import (
	"time"

	"github.com/evidenta/portal-backend/internal/domain/calendar"
	"github.com/evidenta/portal-backend/internal/pkg/dateutil"
)

type fixedHoliday struct {
	month time.Month
	day   int
	title string
}

// Slovak public holidays that fall on the same date every year. Easter
// is movable and missing here, which the remote feed covers; the
// fallback accepts that gap.
var fixedHolidays = []fixedHoliday{
	{time.January, 1, "Deň vzniku Slovenskej republiky"},
	{time.January, 6, "Zjavenie Pána (Traja králi)"},
	{time.May, 1, "Sviatok práce"},
	{time.May, 8, "Deň víťazstva nad fašizmom"},
	{time.July, 5, "Sviatok svätého Cyrila a Metoda"},
	{time.August, 29, "Výročie SNP"},
	{time.September, 15, "Sedembolestná Panna Mária"},
	{time.November, 1, "Sviatok všetkých svätých"},
	{time.November, 17, "Deň boja za slobodu a demokraciu"},
	{time.December, 24, "Štedrý deň"},
	{time.December, 25, "Prvý sviatok vianočný"},
	{time.December, 26, "Druhý sviatok vianočný"},
}

func fallbackCalendar(year int) calendar.WorkCalendar {
	holidays := make([]calendar.Holiday, 0, len(fixedHolidays))
	for _, h := range fixedHolidays {
		holidays = append(holidays, calendar.Holiday{
			Date:  dateutil.New(year, h.month, h.day),
			Title: h.title,
		})
	}
	return calendar.WorkCalendar{
		Year:     year,
		Holidays: holidays,
		Source:   calendar.SourceFallback,
	}
}
