package templates

import "testing"

func TestRenderSubstitutesAllOccurrences(t *testing.T) {
	tmpl := Template{
		Channel: ChannelSMS,
		Content: "Hi {{name}}, due {{amount}}. Thanks, {{name}}!",
	}
	out := Render(tmpl, map[string]string{"name": "Jo", "amount": "$5"})
	if out.Content != "Hi Jo, due $5. Thanks, Jo!" {
		t.Fatalf("unexpected content %q", out.Content)
	}
}

func TestRenderLeavesUnmatchedPlaceholders(t *testing.T) {
	tmpl := Template{
		Channel: ChannelEmail,
		Subject: "Hello {{name}}",
		Content: "Hi {{name}}, see {{missing}} for details",
	}
	out := Render(tmpl, map[string]string{"name": "Jo"})
	if out.Subject != "Hello Jo" {
		t.Fatalf("unexpected subject %q", out.Subject)
	}
	if out.Content != "Hi Jo, see {{missing}} for details" {
		t.Fatalf("unmatched placeholder should survive, got %q", out.Content)
	}
}

func TestRenderNoData(t *testing.T) {
	tmpl := Template{Content: "Hi {{name}}"}
	if out := Render(tmpl, nil); out.Content != "Hi {{name}}" {
		t.Fatalf("unexpected content %q", out.Content)
	}
}
