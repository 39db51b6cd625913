package docflow

import "testing"

func TestMaskCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "", want: "**"},
		{code: "7", want: "**"},
		{code: "12", want: "**"},
		{code: "123", want: "*23"},
		{code: "123456", want: "****56"},
		{code: "кодик", want: "***ик"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := maskCode(tt.code); got != tt.want {
				t.Errorf("maskCode(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestUpload_Empty(t *testing.T) {
	if !(Upload{}).empty() {
		t.Error("zero Upload should be empty")
	}
	if !(Upload{Size: 10}).empty() {
		t.Error("Upload without body should be empty")
	}
}
