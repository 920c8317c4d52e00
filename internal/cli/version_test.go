package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateRecommendation(t *testing.T) {
	tests := []struct {
		name   string
		cli    string
		server string
		want   string
	}{
		{"same", "1.2.0", "v1.2.0", ""},
		{"cli newer", "v1.3.0", "1.2.9", "CLI version is newer than server version. Consider updating the server."},
		{"server newer", "0.9.0", "1.0.0", "Server version is newer than CLI version. Consider updating the CLI."},
		{"dev build", "dev", "1.0.0", ""},
		{"empty server", "1.0.0", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, updateRecommendation(tt.cli, tt.server))
		})
	}
}
