package category

import (
	"testing"

	"github.com/lumipallolabs/dirmap/internal/model"
)

func TestForName(t *testing.T) {
	cases := []struct {
		name  string
		isDir bool
		want  Token
	}{
		{"video.MP4", false, "mp4"},
		{"notes.txt", false, "txt"},
		{"archive.tar.gz", false, "gz"},
		{"src", true, Dir},
		{"weird.dir", true, Dir},
		{"README", false, Plain},
		{".bashrc", false, Plain},
		{"trailing.", false, Plain},
		{"backup.2024-01", false, Plain}, // too long to be an extension
		{"a.go", false, "go"},
	}

	for _, tc := range cases {
		if got := ForName(tc.name, tc.isDir); got != tc.want {
			t.Errorf("ForName(%q, %v): expected %q, got %q", tc.name, tc.isDir, tc.want, got)
		}
	}
}

func TestAnnotate(t *testing.T) {
	root, err := model.Build("root", []model.Record{
		{Path: "a/x.txt", Size: 100},
		{Path: "b.GO", Size: 50},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	Annotate(root)

	if root.Category != string(Dir) {
		t.Errorf("root category: expected %q, got %q", Dir, root.Category)
	}
	a := root.Children[0]
	if a.Category != string(Dir) {
		t.Errorf("dir a category: expected %q, got %q", Dir, a.Category)
	}
	if got := a.Children[0].Category; got != "txt" {
		t.Errorf("x.txt category: expected txt, got %q", got)
	}
	if got := root.Children[1].Category; got != "go" {
		t.Errorf("b.GO category: expected go, got %q", got)
	}
}

func TestPaletteStability(t *testing.T) {
	p := NewPalette(nil)

	first := p.Color("mkv")
	for i := 0; i < 5; i++ {
		if got := p.Color("mkv"); got != first {
			t.Fatalf("color changed between calls: %q vs %q", first, got)
		}
	}
	if NewPalette(nil).Color("mkv") != first {
		t.Error("color differs between palette instances")
	}
}

func TestPaletteOverride(t *testing.T) {
	p := NewPalette(map[string]string{"go": "#00ADD8", string(Dir): "#123456"})

	if got := p.Color("go"); got != "#00ADD8" {
		t.Errorf("override lost: got %q", got)
	}
	if got := p.Color(Dir); got != "#123456" {
		t.Errorf("dir override lost: got %q", got)
	}
	if got := p.Color("rs"); got == "" {
		t.Error("non-overridden token should still get a color")
	}
}

func TestPaletteDefaults(t *testing.T) {
	p := NewPalette(nil)

	if p.Color(Dir) == p.Color(Plain) {
		t.Error("directories and plain files must not share a color")
	}
	if p.Color("") != p.Color(Plain) {
		t.Error("empty token should fall back to the plain color")
	}
}
