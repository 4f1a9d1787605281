package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, SeverityError, p.Severity(ProductionCycle))
	for _, a := range []Anomaly{ExcessTestDeps, TestOnlyCycle, LevelInversion, FalseTestDeps} {
		assert.Equal(t, SeverityWarning, p.Severity(a), "anomaly %s", a)
	}
}

func TestPolicy_Strict(t *testing.T) {
	p := DefaultPolicy().With(LevelInversion, SeverityOff).Strict()

	assert.Equal(t, SeverityError, p.Severity(ExcessTestDeps))
	assert.Equal(t, SeverityError, p.Severity(FalseTestDeps))
	assert.Equal(t, SeverityOff, p.Severity(LevelInversion), "off stays off under strict")
}

func TestPolicy_WithDoesNotMutate(t *testing.T) {
	base := DefaultPolicy()
	_ = base.With(ExcessTestDeps, SeverityError)

	assert.Equal(t, SeverityWarning, base.Severity(ExcessTestDeps))
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy(map[string]string{
		"excess_test_deps": "error",
		"false_test_deps":  "off",
	})
	require.NoError(t, err)

	assert.Equal(t, SeverityError, p.Severity(ExcessTestDeps))
	assert.Equal(t, SeverityOff, p.Severity(FalseTestDeps))
	assert.Equal(t, SeverityWarning, p.Severity(TestOnlyCycle))
}

func TestNewPolicy_Invalid(t *testing.T) {
	_, err := NewPolicy(map[string]string{"no_such_thing": "error"})
	assert.Error(t, err)

	_, err = NewPolicy(map[string]string{"level_inversion": "fatal"})
	assert.Error(t, err)
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"error", SeverityError, true},
		{"WARNING", SeverityWarning, true},
		{"warn", SeverityWarning, true},
		{"off", SeverityOff, true},
		{"bogus", SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeverity(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
