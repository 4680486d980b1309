package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageRef(t *testing.T) {
	tests := []struct {
		ref     string
		wantErr bool
	}{
		{"designs/2024/koi.png", false},
		{"catalog/classic.JPEG", false},
		{"https://cdn.example.com/ponds/a.webp?v=2", false},
		{"designs/brief.pdf", true},
		{"designs/no-extension", true},
		{"my pond.png", true},
		{"ftp://cdn.example.com/a.png", true},
		{"https:///a.png", true},
		{"", true},
		{strings.Repeat("a", MaxImageRefLength) + ".png", true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			err := ImageRef(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestImageRefs(t *testing.T) {
	assert.Error(t, ImageRefs(nil))
	assert.NoError(t, ImageRefs([]string{"a.png", "b.jpg"}))
	assert.Error(t, ImageRefs([]string{"a.png", "b.txt"}))

	many := make([]string, MaxImagesCount+1)
	for i := range many {
		many[i] = "x.png"
	}
	assert.Error(t, ImageRefs(many))
}

func TestValidateRequiredText(t *testing.T) {
	assert.Error(t, ValidateRequiredText("name", "   ", MaxNameLength))
	assert.Error(t, ValidateRequiredText("name", strings.Repeat("я", MaxNameLength+1), MaxNameLength))
	assert.NoError(t, ValidateRequiredText("name", strings.Repeat("я", MaxNameLength), MaxNameLength))
	assert.NoError(t, ValidateOptionalText("notes", "", MaxNotesLength))
}
