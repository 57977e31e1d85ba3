package ingest

import (
	"errors"
	"testing"
	"time"

	"github.com/deltap/pledgepoints/internal/domain"
)

var testRoster = domain.Roster{
	Pledges: []string{"Bob", "Eli", "Matthew"},
	Aliases: map[string]string{"Matt": "Matthew"},
}

func TestParseContent(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		wantPoints int64
		wantPledge string
		wantComm   string
		wantErr    bool
	}{
		{
			name:       "plain submission",
			content:    "+10 Eli Great job at recruitment",
			wantPoints: 10,
			wantPledge: "Eli",
			wantComm:   "Great job at recruitment",
		},
		{
			name:       "negative points",
			content:    "-5 Matt Being late to chapter",
			wantPoints: -5,
			wantPledge: "Matthew",
			wantComm:   "Being late to chapter",
		},
		{
			name:       "to-prefix takes the next word as the name",
			content:    "+10 To Bob great job",
			wantPoints: 10,
			wantPledge: "Bob",
			wantComm:   "great job",
		},
		{
			name:       "lowercase name is title-cased",
			content:    "+3 bob helped with cleanup",
			wantPoints: 3,
			wantPledge: "Bob",
			wantComm:   "helped with cleanup",
		},
		{name: "no leading signed integer", content: "hello there", wantErr: true},
		{name: "unsigned number", content: "10 Bob no sign", wantErr: true},
		{name: "sign without digits", content: "+ Bob no digits", wantErr: true},
		{name: "empty", content: "", wantErr: true},
		{name: "whitespace only", content: "   ", wantErr: true},
		{name: "missing comment", content: "+10 Bob", wantErr: true},
		{name: "to-prefix with nothing after the name", content: "+10 To Bob", wantErr: true},
		{name: "magnitude exceeds int64", content: "+9223372036854775808 Bob too much", wantErr: true},
		{name: "pledge not on roster", content: "+10 Mallory sneaky points", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, pledge, comment, err := ParseContent(tt.content, testRoster)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseContent(%q) = (%d, %q, %q), want error", tt.content, points, pledge, comment)
				}
				if !errors.Is(err, domain.ErrMalformedInput) {
					t.Errorf("error kind = %v, want ErrMalformedInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseContent(%q) error: %v", tt.content, err)
			}
			if points != tt.wantPoints || pledge != tt.wantPledge || comment != tt.wantComm {
				t.Errorf("ParseContent(%q) = (%d, %q, %q), want (%d, %q, %q)",
					tt.content, points, pledge, comment, tt.wantPoints, tt.wantPledge, tt.wantComm)
			}
		})
	}
}

func TestParseMessage(t *testing.T) {
	when := time.Date(2025, 2, 10, 9, 30, 0, 0, time.UTC)
	msg := domain.Message{Author: "warner", Time: when, Content: "+10 Eli nailed the interview"}

	cand, err := ParseMessage(msg, testRoster)
	if err != nil {
		t.Fatalf("ParseMessage() error: %v", err)
	}
	if cand.Brother != "warner" {
		t.Errorf("brother = %q, want the message author", cand.Brother)
	}
	if !cand.Time.Equal(when) {
		t.Error("candidate keeps the message timestamp")
	}
	if cand.PointChange != 10 || cand.Pledge != "Eli" {
		t.Errorf("candidate = %+v", cand)
	}
}
