package clipboard

import (
	"slices"
	"testing"
)

func TestCopyCommand(t *testing.T) {
	only := func(names ...string) func(string) bool {
		return func(n string) bool { return slices.Contains(names, n) }
	}

	tests := []struct {
		name string
		goos string
		has  func(string) bool
		want []string
	}{
		{"darwin", "darwin", only(), []string{"pbcopy"}},
		{"windows", "windows", only(), []string{"clip.exe"}},
		{"wayland preferred", "linux", only("wl-copy", "xclip"), []string{"wl-copy"}},
		{"xclip", "linux", only("xclip", "xsel"), []string{"xclip", "-selection", "clipboard"}},
		{"xsel", "freebsd", only("xsel"), []string{"xsel", "--clipboard", "--input"}},
		{"none", "linux", only(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := copyCommand(tt.goos, tt.has); !slices.Equal(got, tt.want) {
				t.Errorf("copyCommand = %v, want %v", got, tt.want)
			}
		})
	}
}
