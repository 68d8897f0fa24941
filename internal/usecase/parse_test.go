package usecase

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{"simple price", "Milk — $3.99 per gallon", 3.99, true},
		{"whole dollars", "only $4 today", 4, true},
		{"first of several", "was $5.49 now $3.99", 5.49, true},
		{"price inside noise", "add to cart\n$12.29\nin stock", 12.29, true},
		{"no dollar sign", "3.99 per gallon", 0, false},
		{"empty text", "", 0, false},
		{"dollar sign without digits", "prices in $ vary", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParsePrice(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   float64
		wantOK bool
	}{
		{"bare number", "4.50", 4.50, true},
		{"number in sentence", "around 4.50 dollars usually", 4.50, true},
		{"integer", "5", 5, true},
		{"no number", "it depends on the store", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseCalories(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   int
		wantOK bool
	}{
		{"bare integer", "95", 95, true},
		{"with units", "about 150 kcal per 100g", 150, true},
		{"no digits", "varies", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseCalories(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseCalories(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseCalories(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
