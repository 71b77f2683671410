package entity

// Record is one finished review. Once saved it is only ever deleted, never edited.
type Record struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Body            string `json:"body"`
	SubjectTitle    string `json:"subject_title"`
	SubjectInfo     string `json:"subject_info"`
	ConsumedOnLabel string `json:"consumed_on_label"`
	CoverImageURL   string `json:"cover_image_url,omitempty"`
}
