package categorize

import (
	"reflect"
	"testing"
)

func TestExtractPatterns(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        []string
	}{
		{
			name:        "merchant with entity suffix",
			description: "BLUE HERON LLC 8841",
			want:        []string{"blue", "heron", "llc", "blue heron"},
		},
		{
			name:        "recognized brand",
			description: "Netflix subscription",
			want:        []string{"netflix", "subscription", "netflix subscription"},
		},
		{
			name:        "processor noise stripped",
			description: "POS DEBIT CARD PURCHASE ACME INC 22",
			want:        []string{"acme", "inc", "acme inc"},
		},
		{
			name:        "personal name produces nothing",
			description: "John Smith",
			want:        nil,
		},
		{
			name:        "empty description",
			description: "",
			want:        nil,
		},
		{
			name:        "short and numeric tokens dropped",
			description: "AB 12 9921 STARBUCKS",
			want:        []string{"starbucks"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractPatterns(tt.description)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractPatterns(%q) = %v, want %v", tt.description, got, tt.want)
			}
		})
	}
}

func TestExtractPatterns_Deduplicates(t *testing.T) {
	got := extractPatterns("STARBUCKS STARBUCKS 01")
	count := 0
	for _, p := range got {
		if p == "starbucks" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected a single starbucks token, got %v", got)
	}
}

func TestLooksLikeBusiness(t *testing.T) {
	tests := []struct {
		desc string
		want bool
	}{
		{"acme llc", true},
		{"widgets inc", true},
		{"netflix", true},
		{"sq *coffee cart", true},
		{"store 4411", true},
		{"john smith", false},
		{"maria garcia", false},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := looksLikeBusiness(tt.desc); got != tt.want {
				t.Errorf("looksLikeBusiness(%q) = %v, want %v", tt.desc, got, tt.want)
			}
		})
	}
}
