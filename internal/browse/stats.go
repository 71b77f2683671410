package browse

import (
	"fmt"
	"math"

	"journalapi/internal/entity"
)

type MonthBucket struct {
	Name string `json:"name"`
	Film int    `json:"film"`
	Book int    `json:"book"`
}

type RatioSlice struct {
	Domain  entity.Domain `json:"domain"`
	Name    string        `json:"name"`
	Value   int           `json:"value"`
	Percent int           `json:"percent"`
	Label   string        `json:"label"`
}

type Stats struct {
	Film    int           `json:"film"`
	Book    int           `json:"book"`
	Total   int           `json:"total"`
	Monthly []MonthBucket `json:"monthly"`
	Ratio   []RatioSlice  `json:"ratio"`
}

// BuildStats aggregates both collections. Months come from the second field
// of each record's date label, regardless of year; records whose label has no
// readable month count toward the totals only.
func BuildStats(films, books []entity.Record) Stats {
	s := Stats{
		Film:    len(films),
		Book:    len(books),
		Total:   len(films) + len(books),
		Monthly: make([]MonthBucket, 12),
	}
	for i := range s.Monthly {
		s.Monthly[i].Name = fmt.Sprintf("%d월", i+1)
	}
	for _, r := range films {
		if m, ok := entity.MonthOfLabel(r.ConsumedOnLabel); ok {
			s.Monthly[m-1].Film++
		}
	}
	for _, r := range books {
		if m, ok := entity.MonthOfLabel(r.ConsumedOnLabel); ok {
			s.Monthly[m-1].Book++
		}
	}

	s.Ratio = []RatioSlice{
		ratioSlice(entity.DomainFilm, s.Film, s.Total),
		ratioSlice(entity.DomainBook, s.Book, s.Total),
	}
	return s
}

func ratioSlice(d entity.Domain, value, total int) RatioSlice {
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(value) * 100 / float64(total)))
	}
	return RatioSlice{
		Domain:  d,
		Name:    d.Label(),
		Value:   value,
		Percent: pct,
		Label:   fmt.Sprintf("%s %d%%", d.Label(), pct),
	}
}
