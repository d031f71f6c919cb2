package assets

import (
	"errors"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "simple name", input: "default"},
		{name: "name with hyphen", input: "two-column"},
		{name: "name with underscore", input: "my_sheet"},
		{name: "name with numbers", input: "sheet123"},
		{name: "empty name", input: "", wantErr: ErrInvalidAssetName},
		{name: "forward slash", input: "a/b", wantErr: ErrInvalidAssetName},
		{name: "backslash", input: "a\\b", wantErr: ErrInvalidAssetName},
		{name: "parent traversal", input: "..", wantErr: ErrInvalidAssetName},
		{name: "extension", input: "header.tex", wantErr: ErrInvalidAssetName},
		{name: "null byte", input: "a\x00b", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
