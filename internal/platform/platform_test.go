package platform

import (
	"encoding/json"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Limits
		wantOK bool
	}{
		{"twitter", "twitter", Limits{CharLimit: 280, HashtagLimit: 30}, true},
		{"mixed case", "Twitter", Limits{CharLimit: 280, HashtagLimit: 30}, true},
		{"upper case", "LINKEDIN", Limits{CharLimit: 1300, HashtagLimit: 30}, true},
		{"instagram", "instagram", Limits{CharLimit: 2200, HashtagLimit: 30}, true},
		{"facebook", "FaceBook", Limits{CharLimit: 63206, HashtagLimit: 30}, true},
		{"surrounding whitespace", "  twitter\n", Limits{CharLimit: 280, HashtagLimit: 30}, true},
		{"unknown", "mastodon", Limits{}, false},
		{"empty", "", Limits{}, false},
		{"prefix only", "twit", Limits{}, false},
		{"inner space", "linked in", Limits{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.input)
			if ok != tt.wantOK {
				t.Errorf("Lookup(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Lookup(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
			if got.Known() != tt.wantOK {
				t.Errorf("Known() = %v, want %v", got.Known(), tt.wantOK)
			}
		})
	}
}

func TestLimits_JSON(t *testing.T) {
	tests := []struct {
		name   string
		limits Limits
		want   string
	}{
		{"known", Limits{CharLimit: 280, HashtagLimit: 30}, `{"char_limit":280,"hashtag_limit":30}`},
		{"unknown", Limits{}, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.limits)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("Marshal = %s, want %s", b, tt.want)
			}
		})
	}
}

func TestAll(t *testing.T) {
	all := All()
	wantNames := []string{"facebook", "instagram", "linkedin", "twitter"}
	if len(all) != len(wantNames) {
		t.Fatalf("All() returned %d platforms, want %d", len(all), len(wantNames))
	}
	for i, p := range all {
		if p.Name != wantNames[i] {
			t.Errorf("All()[%d].Name = %q, want %q", i, p.Name, wantNames[i])
		}
		l, ok := Lookup(p.Name)
		if !ok || l != p.Limits {
			t.Errorf("All()[%d] = %+v disagrees with Lookup", i, p)
		}
	}

	all[0].Limits.CharLimit = 1
	if l, _ := Lookup(all[0].Name); l.CharLimit == 1 {
		t.Error("mutating All() result changed the table")
	}
}
