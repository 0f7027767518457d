package testutil

import (
	"errors"
	"testing"
)

func TestMongoTestURI(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		required string
		want     string
		wantErr  error
	}{
		{name: "unset skips", want: ""},
		{name: "uri given", uri: "mongodb://localhost:27017", want: "mongodb://localhost:27017"},
		{name: "required with uri", uri: "mongodb://db:27017", required: "1", want: "mongodb://db:27017"},
		{name: "required without uri", required: "1", wantErr: ErrMongoRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MONGO_TEST_URI", tt.uri)
			t.Setenv("MONGO_TEST_REQUIRED", tt.required)

			got, err := MongoTestURI()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("uri = %q, want %q", got, tt.want)
			}
		})
	}
}
