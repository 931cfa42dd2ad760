package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reqtrack/internal/model"
)

var requestIDPattern = regexp.MustCompile(`^[A-Z]{1,3}/\d{2}/P\d{5}$`)

func TestRequestIDPrefix(t *testing.T) {
	tests := []struct {
		name string
		org  model.Organization
		want string
	}{
		{
			name: "configured prefix wins over name",
			org:  model.Organization{Name: "Zenith Corp", RequisitionPrefix: "ORB"},
			want: "ORB",
		},
		{
			name: "falls back to organization name",
			org:  model.Organization{Name: "Acme Industrial"},
			want: "ACM",
		},
		{
			name: "lowercase prefix is uppercased",
			org:  model.Organization{RequisitionPrefix: "orb"},
			want: "ORB",
		},
		{
			name: "digits and punctuation are stripped",
			org:  model.Organization{RequisitionPrefix: "O-2B"},
			want: "OB",
		},
		{
			name: "long prefix is clamped to three letters",
			org:  model.Organization{RequisitionPrefix: "ORBITAL"},
			want: "ORB",
		},
		{
			name: "short name stays short",
			org:  model.Organization{Name: "AB"},
			want: "AB",
		},
		{
			name: "blank prefix falls back to name",
			org:  model.Organization{Name: "Vertex", RequisitionPrefix: "   "},
			want: "VER",
		},
		{
			name: "non-ascii letters are stripped",
			org:  model.Organization{Name: "Ärzte AG"},
			want: "RZT",
		},
		{
			name: "letterless name gets the default prefix",
			org:  model.Organization{Name: "123-42"},
			want: "REQ",
		},
		{
			name: "letterless override gets the default prefix",
			org:  model.Organization{Name: "42", RequisitionPrefix: "#1"},
			want: "REQ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, requestIDPrefix(&tt.org))
		})
	}
}

func TestRequestIDScope(t *testing.T) {
	org := &model.Organization{RequisitionPrefix: "ORB"}
	at := time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "ORB/25/P", requestIDScope(org, at))

	at = time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORB/31/P", requestIDScope(org, at))
}

func TestFormatRequestID(t *testing.T) {
	assert.Equal(t, "ORB/25/P00001", formatRequestID("ORB/25/P", 1))
	assert.Equal(t, "ORB/25/P00042", formatRequestID("ORB/25/P", 42))
	assert.Equal(t, "ORB/25/P12345", formatRequestID("ORB/25/P", 12345))
}

func TestRequestIDMatchesPattern(t *testing.T) {
	orgs := []*model.Organization{
		{RequisitionPrefix: "ORB"},
		{Name: "Acme Industrial"},
		{Name: "x9"},
		{RequisitionPrefix: "a-1b2c3d"},
		{Name: "Ärzte AG"},
		{Name: "123-42"},
		{Name: "日本商事"},
	}
	at := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	for _, org := range orgs {
		id := formatRequestID(requestIDScope(org, at), 7)
		assert.Regexp(t, requestIDPattern, id)
	}
}
