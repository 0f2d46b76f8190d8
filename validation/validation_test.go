package validation

import (
	"testing"
)

func TestValidateVideoID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"dQw4w9WgXcQ", false},
		{"9bZkp7q19f0", false},
		{"jNQXAC9IVRw", false},
		{"", true},
		{"too-short", true},
		{"way-too-long-to-be-an-id", true},
		{"invalid id!!", true},
	}

	for _, tt := range tests {
		err := ValidateVideoID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVideoID(%s) error = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/live/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"", "", true},
		{"https://www.youtube.com/watch", "", true},
		{"https://example.com/watch?v=dQw4w9WgXcQ", "", true},
		{"https://www.youtube.com/playlist?list=PL123", "", true},
		{"https://youtu.be/bad", "", true},
	}

	for _, tt := range tests {
		got, err := ExtractVideoID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExtractVideoID(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractVideoID(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
