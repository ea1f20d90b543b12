package strings

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CreatedAt", "created_at"},
		{"HTTPRequest", "http_request"},
		{"id", "id"},
		{"parentTopicID", "parent_topic_id"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ToSnakeCase(tt.in); got != tt.want {
				t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToDashCase(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"camel", "createdAt", "created-at"},
		{"association", "parentTopic", "parent-topic"},
		{"leading upper", "CreatedAt", "created-at"},
		{"already lower", "title", "title"},
		{"empty", "", ""},
		{"underscores untouched", "created_at", "created_at"},
		{"acronym letters split", "userID", "user-i-d"},
		{"single upper", "X", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToDashCase(tt.in); got != tt.want {
				t.Errorf("ToDashCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
