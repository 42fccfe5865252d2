package scanner

import (
	"reflect"
	"testing"
)

// TestOptionsArgs verifies the rendered command line for combinations
// of analysis flags and limits.
func TestOptionsArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "minimal",
			opts: Options{Target: "/opt/app"},
			want: []string{"-C", "/opt/app", "-q", "-xj", "/tmp/r.json"},
		},
		{
			name: "full offensive",
			opts: Options{
				Target:     "/opt/app",
				Extended:   true,
				Offensive:  true,
				Force:      true,
				CVEQueries: true,
				CVELookup:  true,
				MaxFiles:   500,
				MaxSizeMB:  64,
				MaxPerType: 40,
				Baseline:   "/tmp/base.json",
			},
			want: []string{
				"-C", "/opt/app", "-q", "-e", "-O", "-f", "--cve", "--cve-lookup",
				"--max-files", "500", "--max-size-mb", "64", "--max-per-type", "40",
				"--baseline", "/tmp/base.json", "-xj", "/tmp/r.json",
			},
		},
		{
			name: "zero limits omitted",
			opts: Options{Target: "/x", Extended: true},
			want: []string{"-C", "/x", "-q", "-e", "-xj", "/tmp/r.json"},
		},
		{
			name: "extra exports",
			opts: Options{Target: "/x", HTMLExport: "/tmp/r.html", SARIFExport: "/tmp/r.sarif"},
			want: []string{"-C", "/x", "-q", "-xj", "/tmp/r.json", "-xh", "/tmp/r.html", "-xs", "/tmp/r.sarif"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.opts.Args("/tmp/r.json")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Args() = %v, want %v", got, tt.want)
			}
		})
	}
}
