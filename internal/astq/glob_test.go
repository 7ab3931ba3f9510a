package astq

import "testing"

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		glob string
		path string
		want bool
	}{
		{"src/**/*.ts", "src/f.ts", true},
		{"src/**/*.ts", "src/deep/nested/f.ts", true},
		{"src/**/*.ts", "test/f.ts", false},
		{"src/**/*.ts", "src/f.js", false},
		{"test*/**/*.ts", "test/f.ts", true},
		{"test*/**/*.ts", "testutil/helpers/f.ts", true},
		{"test*/**/*.ts", "src/test/f.ts", false},
		{"{src,test}/**/*.ts", "src/f.ts", true},
		{"{src,test}/**/*.ts", "test/f.ts", true},
		{"{src,test}/**/*.ts", "lib/f.ts", false},
		{"src/f.ts", "src/f.ts", true},
		{"src/f.ts", "src/g.ts", false},
		{"**/*.ts", "a/b/c.ts", true},
		{"**/*.ts", "c.ts", true},
	}
	for _, tt := range tests {
		if got := MatchGlob(tt.glob, tt.path); got != tt.want {
			t.Errorf("MatchGlob(%q, %q) = %v, want %v", tt.glob, tt.path, got, tt.want)
		}
	}
}
