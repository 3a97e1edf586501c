package domain

import "regexp"

const (
	AnonymousAuthor  = "аноним"
	ScriptRemovedTag = "[script removed]"
	MaxReviewRating  = 5
)

var scriptBlockRe = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)

// Review - отзыв с удаленного API. Текст содержит HTML.
type Review struct {
	ID     int      `json:"id"`
	Author string   `json:"author"`
	Text   string   `json:"text"`
	Rating int      `json:"rating"`
	Date   string   `json:"date,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// Sanitized вырезает <script> блоки, подставляет автора по умолчанию
// и приводит рейтинг к диапазону 0..5.
func (r Review) Sanitized() Review {
	out := r
	out.Text = scriptBlockRe.ReplaceAllString(r.Text, ScriptRemovedTag)
	if out.Author == "" {
		out.Author = AnonymousAuthor
	}
	if out.Rating < 0 {
		out.Rating = 0
	}
	if out.Rating > MaxReviewRating {
		out.Rating = MaxReviewRating
	}
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	return out
}
