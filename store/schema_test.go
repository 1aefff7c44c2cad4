package store

import (
	"testing"
)

func TestContactKey(t *testing.T) {
	tests := []struct {
		name        string
		contactName string
		want        string
	}{
		{
			name:        "simple name",
			contactName: "Bogdan",
			want:        "contacts:Bogdan",
		},
		{
			name:        "name with spaces",
			contactName: "valid name",
			want:        "contacts:valid name",
		},
		{
			name:        "name containing the separator",
			contactName: "a:b",
			want:        "contacts:a:b",
		},
		{
			name:        "empty name",
			contactName: "",
			want:        "contacts:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contactKey(tt.contactName)
			if got != tt.want {
				t.Errorf("contactKey(%s) = %s, want %s", tt.contactName, got, tt.want)
			}
		})
	}
}

func TestNameFromKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		want   string
		wantOK bool
	}{
		{name: "namespaced key", key: "contacts:Bogdan", want: "Bogdan", wantOK: true},
		{name: "only the first prefix is stripped", key: "contacts:contacts:x", want: "contacts:x", wantOK: true},
		{name: "foreign namespace", key: "users:Bogdan", want: "users:Bogdan", wantOK: false},
		{name: "prefix without name", key: "contacts:", want: "", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := nameFromKey(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("nameFromKey(%s) = (%s, %v), want (%s, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestContactKeyRoundTrip(t *testing.T) {
	for _, name := range []string{"Aaa", "Zoë", "with space", "x:y"} {
		got, ok := nameFromKey(contactKey(name))
		if !ok || got != name {
			t.Errorf("round trip of %q gave (%q, %v)", name, got, ok)
		}
	}
}
