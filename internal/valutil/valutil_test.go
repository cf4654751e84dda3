package valutil

import "testing"

func TestIsNum(t *testing.T) {
	cases := map[string]bool{
		"0":       true,
		"12":      true,
		"-12":     true,
		"1234.5":  true,
		"0.25":    true,
		"012":     false,
		"1,234":   false,
		"":        false,
		"-":       false,
		"1.":      false,
		".5":      false,
		"12a":     false,
		"1.2.3":   false,
		"-0.0001": true,
	}
	for input, want := range cases {
		if got := IsNum(input); got != want {
			t.Errorf("IsNum(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestIsDate(t *testing.T) {
	cases := map[string]bool{
		"20250210": true,
		"20240229": true,
		"20250229": false,
		"20251301": false,
		"2025021":  false,
		"2025/02/": false,
	}
	for input, want := range cases {
		if got := IsDate(input); got != want {
			t.Errorf("IsDate(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestIsTrue(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: false},
		{name: "bool", value: true, want: true},
		{name: "string one", value: " 1 ", want: true},
		{name: "string yes", value: "YES", want: true},
		{name: "string off", value: "off", want: false},
		{name: "float", value: float64(1), want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsTrue(tc.value); got != tc.want {
				t.Fatalf("IsTrue(%v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}
