package prompts

import (
	"os"
	"strings"
	"testing"
)

func writeTestPrompts(t *testing.T) string {
	t.Helper()
	tmp := "test_prompts.yaml"
	raw := []byte(`welcome:
  system_prompt: |
    You are Rox. Greet {{student_name}} warmly.
  user_prompt: Please greet the student.
teaching_generator:
  system_prompt: Teach step {{step}} using {{examples}}.
`)
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		t.Fatalf("write tmp prompts: %v", err)
	}
	t.Cleanup(func() { os.Remove(tmp) })
	return tmp
}

func TestLoadAndRender(t *testing.T) {
	lib, err := Load(writeTestPrompts(t))
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}

	tpl, ok := lib.Get("welcome")
	if !ok {
		t.Fatalf("welcome template missing")
	}
	if tpl.User != "Please greet the student." {
		t.Errorf("unexpected user prompt: %q", tpl.User)
	}

	rendered, err := lib.System("welcome", map[string]string{"student_name": "Jane"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(rendered, "Greet Jane warmly") {
		t.Errorf("placeholder not substituted: %q", rendered)
	}
}

func TestSystem_MissingTemplate(t *testing.T) {
	lib, err := Load(writeTestPrompts(t))
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}
	if _, err := lib.System("no_such_template", nil); err == nil {
		t.Errorf("expected error for missing template")
	}
}

func TestRender_UnknownPlaceholderLeftInPlace(t *testing.T) {
	out := Render("hello {{name}}", map[string]string{"other": "x"})
	if out != "hello {{name}}" {
		t.Errorf("unknown placeholder should stay visible, got %q", out)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("no_such_prompts.yaml"); err == nil {
		t.Errorf("expected error for missing file")
	}
}
