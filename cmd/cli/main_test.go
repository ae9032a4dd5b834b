package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYearSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    []int
		wantErr bool
	}{
		{"2024,2025", []int{2024, 2025}, false},
		{" 2024 - 2026 ", []int{2024, 2025, 2026}, false},
		{"2026-2024", []int{2026}, false},
		{"2024,abc", nil, true},
		{"x-2025", nil, true},
		{"1-1000000000", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseYearSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	defaults, err := parseYearSpec("")
	require.NoError(t, err)
	require.NotEmpty(t, defaults)
	assert.Equal(t, 2024, defaults[0])
}
