package review

import (
	"encoding/json"

	"github.com/HerbHall/postreview/internal/platform"
	"github.com/HerbHall/postreview/internal/tone"
)

// Request is one post to review. Both fields are optional.
type Request struct {
	Text     string `json:"text" example:"Excited to share our new release with everyone!"`
	Platform string `json:"platform" example:"twitter"`
}

// Result is the outcome of a successful review.
type Result struct {
	Tone        tone.Result
	Limitations platform.Limits
	Suggestions string
	RevisedPost string
}

// Response is the JSON form of a Result. Tone keeps the plain sentiment
// label; the full tone descriptor is in ToneDetails.
type Response struct {
	Tone        string          `json:"tone" example:"Positive"`
	ToneDetails tone.Result     `json:"tone_details"`
	Limitations platform.Limits `json:"limitations"`
	Suggestions string          `json:"suggestions" example:"1. Lead with the benefit.\n2. Add a call to action.\n3. Use one hashtag."`
	RevisedPost string          `json:"revised_post" example:"Our new release is here: faster builds for everyone. Try it today!"`
}

// Response converts r to its wire form.
func (r Result) Response() Response {
	return Response{
		Tone:        r.Tone.String(),
		ToneDetails: r.Tone,
		Limitations: r.Limitations,
		Suggestions: r.Suggestions,
		RevisedPost: r.RevisedPost,
	}
}

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Response())
}
