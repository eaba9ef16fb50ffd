package media

import "testing"

func TestCreateRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateRequest
		wantErr bool
	}{
		{"valid", CreateRequest{URL: "https://cdn.example.com/a.png", Filename: "a.png", SizeBytes: 10}, false},
		{"relative url", CreateRequest{URL: "/a.png", Filename: "a.png"}, true},
		{"missing filename", CreateRequest{URL: "https://cdn.example.com/a.png"}, true},
		{"negative size", CreateRequest{URL: "https://cdn.example.com/a.png", Filename: "a.png", SizeBytes: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
