package storage

import "testing"

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a/b.stl", "a/b.stl"},
		{`a\b.stl`, "a/b.stl"},
		{`models\characters\hero.obj`, "models/characters/hero.obj"},
		{"plain.ply", "plain.ply"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeKey(tt.in); got != tt.want {
				t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		in     string
		host   string
		secure bool
	}{
		{"http://127.0.0.1:9000", "127.0.0.1:9000", false},
		{"https://play.min.io", "play.min.io", true},
		{"minio.example.com:9000", "minio.example.com:9000", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			host, secure := splitEndpoint(tt.in)
			if host != tt.host || secure != tt.secure {
				t.Errorf("splitEndpoint(%q) = (%q, %v), want (%q, %v)", tt.in, host, secure, tt.host, tt.secure)
			}
		})
	}
}
