package record

import "testing"

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Widget":      "widget",
		"UserID":      "user_id",
		"HTTPServer":  "httpserver",
		"user.Name":   "user_name",
		"My Type":     "my_type",
		"a":           "a",
		"":            "",
	}
	for in, want := range cases {
		if got := SnakeCase(in); got != want {
			t.Errorf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPathForAppendsExtension(t *testing.T) {
	got := PathFor("/var/data", "Widget")
	want := "/var/data/widget.dbobj"
	if got != want {
		t.Fatalf("PathFor() = %q, want %q", got, want)
	}
}
