package note

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	vault := t.TempDir()
	writeFile(t, vault, "1.2 The impact of digitalisation.md", "---\ntitle: Digitalisation\ntags: [thesis, draft]\n---\nBody line\n")

	t.Run("appends extension", func(t *testing.T) {
		n, err := Load(vault, "1.2 The impact of digitalisation")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if n.Name != "1.2 The impact of digitalisation.md" {
			t.Errorf("Name = %q", n.Name)
		}
		if n.Meta.Title != "Digitalisation" {
			t.Errorf("Meta.Title = %q", n.Meta.Title)
		}
		if len(n.Meta.Tags) != 2 {
			t.Errorf("Meta.Tags = %v", n.Meta.Tags)
		}
		if n.DisplayTitle() != "Digitalisation" {
			t.Errorf("DisplayTitle() = %q", n.DisplayTitle())
		}
		if n.Stem() != "1.2 The impact of digitalisation" {
			t.Errorf("Stem() = %q", n.Stem())
		}
	})

	t.Run("line numbers include front matter", func(t *testing.T) {
		n, err := Load(vault, "1.2 The impact of digitalisation.md")
		if err != nil {
			t.Fatal(err)
		}
		lines := n.Lines()
		if len(lines) != 5 {
			t.Fatalf("got %d lines, want 5", len(lines))
		}
		if lines[4] != "Body line\n" {
			t.Errorf("line 5 = %q", lines[4])
		}
	})
}

func TestLoad_NoFrontMatter(t *testing.T) {
	vault := t.TempDir()
	writeFile(t, vault, "plain.md", "Just text\n")

	n, err := Load(vault, "plain")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if n.Meta.Title != "" {
		t.Errorf("Meta.Title = %q, want empty", n.Meta.Title)
	}
	if n.DisplayTitle() != "plain" {
		t.Errorf("DisplayTitle() = %q, want stem", n.DisplayTitle())
	}
}

func TestLoad_NotFound(t *testing.T) {
	vault := t.TempDir()
	writeFile(t, vault, "Chapter one.md", "")
	writeFile(t, vault, "chapter two.md", "")
	writeFile(t, vault, "Other.md", "")
	writeFile(t, vault, "chapter.txt", "")

	_, err := Load(vault, "Chapter three")
	if !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("Load() error = %v, want ErrNoteNotFound", err)
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error is not *NotFoundError: %T", err)
	}
	want := []string{"Chapter one.md", "chapter two.md"}
	if len(nf.Suggestions) != len(want) {
		t.Fatalf("Suggestions = %v, want %v", nf.Suggestions, want)
	}
	for i := range want {
		if nf.Suggestions[i] != want[i] {
			t.Errorf("Suggestions[%d] = %q, want %q", i, nf.Suggestions[i], want[i])
		}
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "empty", input: "", want: 0},
		{name: "no trailing newline", input: "a\nb", want: 2},
		{name: "trailing newline", input: "a\nb\n", want: 2},
		{name: "blank lines kept", input: "a\n\nb\n", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(SplitLines(tt.input)); got != tt.want {
				t.Errorf("len(SplitLines(%q)) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
