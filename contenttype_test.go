package fluidpath

import "testing"

func TestContentType(t *testing.T) {
	tests := []struct {
		key  string
		data []byte
		want string
	}{
		{"a/b/readme.txt", nil, "text/plain"},
		{"data.JSON", nil, "application/json"},
		{"photo.jpeg", nil, "image/jpeg"},
		{"noext", []byte("%PDF-1.4 ..."), "application/pdf"},
		{"noext", nil, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := ContentType(tt.key, tt.data); got != tt.want {
				t.Errorf("ContentType(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
