package services

import "testing"

func TestEncodeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "plain word", query: "radiohead", want: "radiohead"},
		{name: "space becomes %20", query: "daft punk", want: "daft%20punk"},
		{name: "reserved characters", query: "a&b=c?d/e#f", want: "a%26b%3Dc%3Fd%2Fe%23f"},
		{name: "plus sign is escaped", query: "c+d", want: "c%2Bd"},
		{name: "unreserved characters kept", query: "a-b_c.d~e", want: "a-b_c.d~e"},
		{name: "comma and colon", query: "artist:Björk, live", want: "artist%3ABj%C3%B6rk%2C%20live"},
		{name: "empty", query: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeQuery(tt.query); got != tt.want {
				t.Errorf("EncodeQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
