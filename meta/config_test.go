package meta

import (
	"errors"
	"testing"
)

// TestDefaultConfigValues verifies DefaultConfig returns expected field values.
func TestDefaultConfigValues(t *testing.T) {
	c := DefaultConfig()

	if c.MinAtomLen != 3 {
		t.Errorf("MinAtomLen = %d, want 3", c.MinAtomLen)
	}
	if c.MaxClassSize != 10 {
		t.Errorf("MaxClassSize = %d, want 10", c.MaxClassSize)
	}
	if c.MaxCrossProduct != 16 {
		t.Errorf("MaxCrossProduct = %d, want 16", c.MaxCrossProduct)
	}
	if c.MaxVisits != 100_000 {
		t.Errorf("MaxVisits = %d, want 100000", c.MaxVisits)
	}
	if !c.EnablePruning {
		t.Error("EnablePruning should be true by default")
	}
	if c.EnableGate {
		t.Error("EnableGate should be false by default")
	}
	if c.AllowEmpty {
		t.Error("AllowEmpty should be false by default")
	}
}

// TestDefaultConfigPassesValidation verifies DefaultConfig always validates.
func TestDefaultConfigPassesValidation(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

// TestConfigValidate tests the boundaries of every validated field.
func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"min atom len zero", func(c *Config) { c.MinAtomLen = 0 }, "MinAtomLen"},
		{"min atom len minimum", func(c *Config) { c.MinAtomLen = 1 }, ""},
		{"min atom len maximum", func(c *Config) { c.MinAtomLen = 64 }, ""},
		{"min atom len above maximum", func(c *Config) { c.MinAtomLen = 65 }, "MinAtomLen"},
		{"class size zero", func(c *Config) { c.MaxClassSize = 0 }, "MaxClassSize"},
		{"class size maximum", func(c *Config) { c.MaxClassSize = 256 }, ""},
		{"class size above maximum", func(c *Config) { c.MaxClassSize = 257 }, "MaxClassSize"},
		{"cross product zero", func(c *Config) { c.MaxCrossProduct = 0 }, "MaxCrossProduct"},
		{"cross product maximum", func(c *Config) { c.MaxCrossProduct = 4096 }, ""},
		{"cross product above maximum", func(c *Config) { c.MaxCrossProduct = 4097 }, "MaxCrossProduct"},
		{"visits below minimum", func(c *Config) { c.MaxVisits = 99 }, "MaxVisits"},
		{"visits minimum", func(c *Config) { c.MaxVisits = 100 }, ""},
		{"visits above maximum", func(c *Config) { c.MaxVisits = 10_000_001 }, "MaxVisits"},
		{"flags do not matter", func(c *Config) { c.EnablePruning, c.EnableGate, c.AllowEmpty = false, true, true }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			err := c.Validate()

			if (err != nil) != (tt.wantField != "") {
				t.Fatalf("Validate() error = %v, want field %q", err, tt.wantField)
			}
			if err == nil {
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "MinAtomLen", Message: "must be between 1 and 64"}
	want := "refilter: invalid config: MinAtomLen: must be between 1 and 64"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestConfig_SubConfigs(t *testing.T) {
	c := DefaultConfig()
	c.MinAtomLen = 5
	c.EnableGate = true

	sc := c.SynthesizerConfig()
	if sc.MinAtomLen != 5 || sc.MaxClassSize != 10 || sc.MaxCrossProduct != 16 || sc.MaxVisits != 100_000 {
		t.Errorf("SynthesizerConfig() = %+v", sc)
	}
	if !c.MatcherConfig().EnableGate {
		t.Error("MatcherConfig().EnableGate should follow EnableGate")
	}
}
