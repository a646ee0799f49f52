package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

var alertTemplate = template.Must(template.New("alert").Parse(
	`<div class="alert alert-{{.Level}} alert-dismissible fade show position-fixed" role="alert" data-id="{{.ID}}" data-duration="{{.DurationMillis}}">
  <div class="d-flex justify-content-between align-items-center">
    <span>{{.Message}}</span>
    <button type="button" class="btn-close" data-bs-dismiss="alert">
      <span>&times;</span>
    </button>
  </div>
</div>`))

// RenderHTML returns the dismissible alert markup for n. The message is
// escaped.
func RenderHTML(n Notification) (template.HTML, error) {
	if n.Level == "" {
		n.Level = Info
	}

	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("failed to render notification: %w", err)
	}
	return template.HTML(buf.String()), nil
}
