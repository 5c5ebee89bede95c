// Package render implements the default template rendering capability:
// plain placeholder substitution over a campaign body.
package render

import (
	"strings"

	"github.com/calebsw/lettermill-api/internal/delivery"
)

// Placeholder tokens recognized in campaign bodies.
const (
	placeholderName           = "{{name}}"
	placeholderEmail          = "{{email}}"
	placeholderUnsubscribeURL = "{{unsubscribe_url}}"
)

// PlaceholderRenderer substitutes the recipient's fields into the body.
// Unknown placeholders are left intact so authoring mistakes are visible
// in test sends rather than silently swallowed.
type PlaceholderRenderer struct{}

// Ensure PlaceholderRenderer implements delivery.TemplateRenderer
var _ delivery.TemplateRenderer = (*PlaceholderRenderer)(nil)

// NewPlaceholderRenderer creates a PlaceholderRenderer.
func NewPlaceholderRenderer() *PlaceholderRenderer {
	return &PlaceholderRenderer{}
}

// Render substitutes contact fields and the unsubscribe URL into body.
func (r *PlaceholderRenderer) Render(body string, rc delivery.RenderContext) (string, error) {
	name := rc.Contact.Name
	if name == "" {
		name = rc.Contact.Email
	}

	out := body
	out = strings.ReplaceAll(out, placeholderName, name)
	out = strings.ReplaceAll(out, placeholderEmail, rc.Contact.Email)
	out = strings.ReplaceAll(out, placeholderUnsubscribeURL, rc.UnsubscribeURL)

	return out, nil
}
