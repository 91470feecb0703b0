package memory

import (
	"runtime/debug"
	"testing"
)

// restoreMemoryLimit resets the runtime limit changed by ConfigureFromEnv.
func restoreMemoryLimit(t *testing.T) {
	t.Helper()
	old := debug.SetMemoryLimit(-1)
	t.Cleanup(func() { debug.SetMemoryLimit(old) })
}

func TestConfigureFromEnv_NoEnvironmentVariables(t *testing.T) {
	t.Setenv("GOMEMLIMIT", "")
	t.Setenv("MEMORY_LIMIT", "")
	t.Setenv("MEMORY_RATIO", "")

	result := ConfigureFromEnv()

	if result.Configured {
		t.Error("Expected Configured to be false when no env vars set")
	}
	if result.Source != "none" {
		t.Errorf("Expected Source to be 'none', got %q", result.Source)
	}
	if result.GoMemLimit != 0 || result.ContainerLimit != 0 || result.Ratio != 0 {
		t.Errorf("Expected zero limits, got %+v", result)
	}
}

func TestConfigureFromEnv_GOMEMLIMITTakesPrecedence(t *testing.T) {
	restoreMemoryLimit(t)
	debug.SetMemoryLimit(500 << 20)
	t.Setenv("GOMEMLIMIT", "500MiB")
	t.Setenv("MEMORY_LIMIT", "1073741824")

	result := ConfigureFromEnv()

	if result.Source != "GOMEMLIMIT" {
		t.Errorf("Expected Source GOMEMLIMIT, got %q", result.Source)
	}
	if !result.Configured {
		t.Error("Expected Configured to be true")
	}
	if result.ContainerLimit != 0 {
		t.Errorf("MEMORY_LIMIT should be ignored, got ContainerLimit=%d", result.ContainerLimit)
	}
}

func TestConfigureFromEnv_MemoryLimit(t *testing.T) {
	tests := []struct {
		name      string
		limit     string
		ratio     string
		wantRatio float64
	}{
		{"default ratio", "1073741824", "", DefaultMemoryRatio},
		{"custom ratio", "1073741824", "0.5", 0.5},
		{"ratio of one", "1073741824", "1.0", 1.0},
		{"ratio out of range", "1073741824", "1.5", DefaultMemoryRatio},
		{"zero ratio", "1073741824", "0", DefaultMemoryRatio},
		{"unparseable ratio", "1073741824", "half", DefaultMemoryRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreMemoryLimit(t)
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("MEMORY_LIMIT", tt.limit)
			t.Setenv("MEMORY_RATIO", tt.ratio)

			result := ConfigureFromEnv()

			if !result.Configured || result.Source != "MEMORY_LIMIT" {
				t.Fatalf("unexpected result %+v", result)
			}
			if result.Ratio != tt.wantRatio {
				t.Errorf("Ratio = %v, want %v", result.Ratio, tt.wantRatio)
			}
			want := int64(float64(1073741824) * tt.wantRatio)
			if result.GoMemLimit != want {
				t.Errorf("GoMemLimit = %d, want %d", result.GoMemLimit, want)
			}
			if got := debug.SetMemoryLimit(-1); got != want {
				t.Errorf("runtime limit = %d, want %d", got, want)
			}
		})
	}
}

func TestConfigureFromEnv_InvalidMemoryLimit(t *testing.T) {
	for _, v := range []string{"lots", "-5", "0"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("GOMEMLIMIT", "")
			t.Setenv("MEMORY_LIMIT", v)

			result := ConfigureFromEnv()
			if result.Configured || result.Source != "none" {
				t.Errorf("MEMORY_LIMIT=%q: got %+v", v, result)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{1 << 30, "1.0 GiB"},
		{5 << 40, "5.0 TiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
