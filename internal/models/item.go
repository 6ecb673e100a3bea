package models

// Item is a single flashcard: a problem side, an answer side and its review state.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Section  string `json:"section"`
	SideNote string `json:"side_note"`

	ProblemText   *string  `json:"problem_text"`
	ProblemURL    *string  `json:"problem_url"`
	ProblemImage  *string  `json:"problem_image"` // deprecated, see ProblemImages
	ProblemImages []string `json:"problem_images"`

	AnswerText   *string  `json:"answer_text"`
	AnswerURL    *string  `json:"answer_url"`
	AnswerImage  *string  `json:"answer_image"` // deprecated, see AnswerImages
	AnswerImages []string `json:"answer_images"`

	Reviewed       bool     `json:"reviewed"`
	NextReviewDate *string  `json:"next_review_date"`
	ReviewDates    []string `json:"review_dates"`

	CreatedDate  string `json:"created_date"`
	LastAccessed string `json:"last_accessed"`
	Archived     bool   `json:"archived"`
}

// ItemInput is the client-editable part of an Item.
type ItemInput struct {
	Name     string `json:"name"`
	Section  string `json:"section"`
	SideNote string `json:"side_note"`

	ProblemText   *string  `json:"problem_text"`
	ProblemURL    *string  `json:"problem_url"`
	ProblemImages []string `json:"problem_images"`

	AnswerText   *string  `json:"answer_text"`
	AnswerURL    *string  `json:"answer_url"`
	AnswerImages []string `json:"answer_images"`

	Reviewed       bool     `json:"reviewed"`
	NextReviewDate *string  `json:"next_review_date"`
	ReviewDates    []string `json:"review_dates"`
	Archived       bool     `json:"archived"`
}

// Apply copies the editable fields of in onto a copy of it and returns it.
// Identity and lifecycle timestamps are left untouched.
func (in ItemInput) Apply(it Item) Item {
	it.Name = in.Name
	it.Section = in.Section
	it.SideNote = in.SideNote
	it.ProblemText = cloneString(in.ProblemText)
	it.ProblemURL = cloneString(in.ProblemURL)
	it.ProblemImages = cloneStrings(in.ProblemImages)
	it.AnswerText = cloneString(in.AnswerText)
	it.AnswerURL = cloneString(in.AnswerURL)
	it.AnswerImages = cloneStrings(in.AnswerImages)
	it.Reviewed = in.Reviewed
	it.NextReviewDate = cloneString(in.NextReviewDate)
	it.ReviewDates = cloneStrings(in.ReviewDates)
	it.Archived = in.Archived
	return it
}

// Clone returns a deep copy of the item.
func (it Item) Clone() Item {
	out := it
	out.ProblemText = cloneString(it.ProblemText)
	out.ProblemURL = cloneString(it.ProblemURL)
	out.ProblemImage = cloneString(it.ProblemImage)
	out.ProblemImages = cloneStrings(it.ProblemImages)
	out.AnswerText = cloneString(it.AnswerText)
	out.AnswerURL = cloneString(it.AnswerURL)
	out.AnswerImage = cloneString(it.AnswerImage)
	out.AnswerImages = cloneStrings(it.AnswerImages)
	out.NextReviewDate = cloneString(it.NextReviewDate)
	out.ReviewDates = cloneStrings(it.ReviewDates)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// cloneStrings never returns nil so encoded lists are [] rather than null.
func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
