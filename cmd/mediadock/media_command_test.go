package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMediaResolve(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(filepath.Join(env.cfg.ImagesDir(), "local.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "absolute url collapses to path",
			args: []string{"media", "resolve", "http://storage:8001/media/images/local.png"},
			want: []string{"Normalized: /media/images/local.png", "Served:     /media/images/local.png"},
		},
		{
			name: "stored name",
			args: []string{"media", "resolve", "--stored", "images/local.png"},
			want: []string{"Served:     /media/images/local.png"},
		},
		{
			name: "missing file without origin",
			args: []string{"media", "resolve", "media/images/missing.png"},
			want: []string{"Normalized: /media/images/missing.png", "Served:     /media/images/missing.png", "Remote fallback disabled"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, tt.args, env.configPath)
			if err != nil {
				t.Fatalf("media resolve: %v", err)
			}
			for _, want := range tt.want {
				requireContains(t, out, want)
			}
		})
	}
}
