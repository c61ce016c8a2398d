package review

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/HerbHall/postreview/internal/platform"
	"github.com/HerbHall/postreview/internal/tone"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// promptData is the input of both prompt templates.
type promptData struct {
	Text        string
	Platform    string
	Limits      platform.Limits
	Tone        string
	Count       int
	Suggestions string
}

// SuggestionsPrompt renders the prompt asking for count numbered,
// plain-text improvement suggestions for req.
func SuggestionsPrompt(req Request, limits platform.Limits, t tone.Result, count int) (string, error) {
	return render("suggestions.tmpl", promptData{
		Text:     req.Text,
		Platform: strings.TrimSpace(req.Platform),
		Limits:   limits,
		Tone:     strings.ToLower(t.String()),
		Count:    count,
	})
}

// RevisionPrompt renders the prompt asking for a rewrite of req that
// applies suggestions. The suggestions text is embedded verbatim.
func RevisionPrompt(req Request, limits platform.Limits, suggestions string) (string, error) {
	return render("revision.tmpl", promptData{
		Text:        req.Text,
		Platform:    strings.TrimSpace(req.Platform),
		Limits:      limits,
		Suggestions: suggestions,
	})
}

func render(name string, data promptData) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	return b.String(), nil
}
