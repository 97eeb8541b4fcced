package core

import "testing"

func TestValidDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2021-01-04", true},
		{"2024-02-29", true}, // leap day
		{"2024-02-30", false},
		{"2021-13-01", false},
		{"2021-1-4", false},
		{"04/01/2021", false},
		{"2021-01-04T00:00:00Z", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := ValidDate(tt.date); got != tt.want {
				t.Errorf("ValidDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "Week 1", want: "Week 1"},
		{name: "trims", in: "  Week 1  ", want: "Week 1"},
		{name: "strips markup", in: "<script>alert(1)</script>Week 1", want: "Week 1"},
		{name: "strips tags keeps text", in: "<b>Week</b> 1", want: "Week 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOrderSpecResolve(t *testing.T) {
	spec := OrderSpec{
		Allowed:      []string{"title", "created_at"},
		DefaultField: "created_at",
		DefaultAsc:   true,
	}

	tests := []struct {
		name  string
		sort  string
		order string
		want  DBOrdering
	}{
		{name: "defaults", want: DBOrdering{Field: "created_at", Ascending: true}},
		{name: "allowed field", sort: "title", want: DBOrdering{Field: "title", Ascending: true}},
		{name: "desc", sort: "title", order: "desc", want: DBOrdering{Field: "title", Ascending: false}},
		{name: "unknown field falls back", sort: "lol", order: "desc", want: DBOrdering{Field: "created_at", Ascending: false}},
		{name: "unknown order falls back", sort: "title", order: "sideways", want: DBOrdering{Field: "title", Ascending: true}},
		{name: "case insensitive", sort: " TITLE ", order: "DESC", want: DBOrdering{Field: "title", Ascending: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spec.Resolve(tt.sort, tt.order); got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
