// Package browse builds the read-only calendar and statistics views over
// saved reviews.
package browse

import (
	"fmt"
	"time"

	"journalapi/internal/entity"
)

// Offsets applied to a click position, relative to the calendar container,
// when placing the overlay.
const (
	overlayOffsetX = 15
	overlayOffsetY = -10
)

type MonthRef struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

func (m MonthRef) Prev() MonthRef {
	return monthOf(time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC))
}

func (m MonthRef) Next() MonthRef {
	return monthOf(time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC))
}

// Label renders the month header, e.g. "2024년 5월".
func (m MonthRef) Label() string {
	return fmt.Sprintf("%d년 %d월", m.Year, int(m.Month))
}

func (m MonthRef) days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func monthOf(t time.Time) MonthRef {
	return MonthRef{Year: t.Year(), Month: t.Month()}
}

type Day struct {
	Day           int             `json:"day"`
	Label         string          `json:"label"`
	IsToday       bool            `json:"is_today"`
	CoverImageURL string          `json:"cover_image_url,omitempty"`
	CoverTitle    string          `json:"cover_title,omitempty"`
	Extra         int             `json:"extra"`
	Records       []entity.Record `json:"records"`
}

// Calendar is one month grid. Leading is the number of blank cells before
// the 1st, Sunday first.
type Calendar struct {
	Year    int        `json:"year"`
	Month   time.Month `json:"month"`
	Title   string     `json:"title"`
	Leading int        `json:"leading"`
	Days    []Day      `json:"days"`
	Prev    MonthRef   `json:"prev"`
	Next    MonthRef   `json:"next"`
}

// BuildCalendar places records on the days whose label they carry. Records
// keep their stored order within a day, so the first one supplies the cover.
func BuildCalendar(m MonthRef, recs []entity.Record, today entity.Date) Calendar {
	byLabel := make(map[string][]entity.Record)
	for _, r := range recs {
		byLabel[r.ConsumedOnLabel] = append(byLabel[r.ConsumedOnLabel], r)
	}

	cal := Calendar{
		Year:    m.Year,
		Month:   m.Month,
		Title:   m.Label(),
		Leading: int(time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Weekday()),
		Days:    make([]Day, 0, m.days()),
		Prev:    m.Prev(),
		Next:    m.Next(),
	}
	for d := 1; d <= m.days(); d++ {
		date := entity.NewDate(m.Year, m.Month, d)
		day := Day{
			Day:     d,
			Label:   date.Label(),
			IsToday: date == today,
			Records: byLabel[date.Label()],
		}
		if day.Records == nil {
			day.Records = []entity.Record{}
		}
		if len(day.Records) > 0 {
			day.CoverImageURL = day.Records[0].CoverImageURL
			day.CoverTitle = day.Records[0].SubjectTitle
			day.Extra = len(day.Records) - 1
		}
		cal.Days = append(cal.Days, day)
	}
	return cal
}

type ClickAction string

const (
	ActionNone     ClickAction = "none"
	ActionNavigate ClickAction = "navigate"
	ActionOverlay  ClickAction = "overlay"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type OverlayEntry struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	SubjectTitle  string `json:"subject_title"`
	CoverImageURL string `json:"cover_image_url,omitempty"`
	Location      string `json:"location"`
}

// Overlay lists every record of a crowded day. Choosing an entry navigates to
// its Location; a click anywhere else just closes it.
type Overlay struct {
	Position Point          `json:"position"`
	Entries  []OverlayEntry `json:"entries"`
}

type ClickOutcome struct {
	Action   ClickAction `json:"action"`
	Location string      `json:"location,omitempty"`
	Overlay  *Overlay    `json:"overlay,omitempty"`
}

// DetailPath is where a record's detail view lives.
func DetailPath(d entity.Domain, id int64) string {
	return fmt.Sprintf("/v1/%s/reviews/%d", d, id)
}

// Click resolves a click on a day cell. click and container are viewport
// coordinates; the overlay is positioned relative to the container.
func Click(d entity.Domain, recs []entity.Record, click, container Point) ClickOutcome {
	switch len(recs) {
	case 0:
		return ClickOutcome{Action: ActionNone}
	case 1:
		return ClickOutcome{Action: ActionNavigate, Location: DetailPath(d, recs[0].ID)}
	}

	o := &Overlay{
		Position: Point{
			X: click.X - container.X + overlayOffsetX,
			Y: click.Y - container.Y + overlayOffsetY,
		},
		Entries: make([]OverlayEntry, 0, len(recs)),
	}
	for _, r := range recs {
		o.Entries = append(o.Entries, OverlayEntry{
			ID:            r.ID,
			Title:         r.Title,
			SubjectTitle:  r.SubjectTitle,
			CoverImageURL: r.CoverImageURL,
			Location:      DetailPath(d, r.ID),
		})
	}
	return ClickOutcome{Action: ActionOverlay, Overlay: o}
}
