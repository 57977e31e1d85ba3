// Package ingest converts raw chat-history messages into candidate
// point records: parse, roster validation, deduplication against the
// stored ledger, and rate-limited acknowledgement dispatch.
package ingest

import (
	"strconv"
	"strings"

	"github.com/deltap/pledgepoints/internal/domain"
)

// ─── Candidate Parsing ──────────────────────────────────────────────────────
// A point submission looks like "+10 Eli Great job at recruitment" or
// "-5 Matt Being late to chapter". The leading signed integer is the
// point change, the next token the pledge name, the rest the comment.

// ParseContent extracts (point change, pledge, comment) from one raw
// message. Every failure returns a MalformedInput error; the pipeline
// turns those into negative acknowledgements, never into batch errors.
func ParseContent(content string, roster domain.Roster) (int64, string, string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0, "", "", domain.Errorf(domain.ErrMalformedInput, "empty message")
	}

	digits := leadingSignedInt(trimmed)
	if digits == "" {
		return 0, "", "", domain.Errorf(domain.ErrMalformedInput, "no leading signed point value")
	}

	// ParseInt rejects magnitudes beyond the 64-bit signed range.
	pointChange, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, "", "", domain.Errorf(domain.ErrMalformedInput, "point value %q too large", digits)
	}

	remaining := strings.TrimSpace(trimmed[len(digits):])
	parts := strings.SplitN(remaining, " ", 2)
	if len(parts) < 2 {
		return 0, "", "", domain.Errorf(domain.ErrMalformedInput, "expected a pledge name and a comment")
	}

	pledge := domain.TitleCase(parts[0])
	comment := strings.TrimSpace(parts[1])

	// "+10 to Eli for great work": the real name is the first word of
	// what would otherwise be the comment.
	if pledge == "To" {
		commentParts := strings.SplitN(comment, " ", 2)
		if len(commentParts) < 2 {
			return 0, "", "", domain.Errorf(domain.ErrMalformedInput, "expected a pledge name and a comment")
		}
		pledge = domain.TitleCase(commentParts[0])
		comment = strings.TrimSpace(commentParts[1])
	}

	pledge = roster.Normalize(pledge)
	if !roster.Contains(pledge) {
		return 0, "", "", domain.Errorf(domain.ErrMalformedInput, "pledge %q is not on the roster", pledge)
	}

	return pointChange, pledge, comment, nil
}

// ParseMessage turns one raw chat message into a candidate record, with
// the message author as the crediting brother.
func ParseMessage(msg domain.Message, roster domain.Roster) (domain.Candidate, error) {
	pointChange, pledge, comment, err := ParseContent(msg.Content, roster)
	if err != nil {
		return domain.Candidate{}, err
	}
	return domain.Candidate{
		Time:        msg.Time,
		PointChange: pointChange,
		Pledge:      pledge,
		Brother:     msg.Author,
		Comment:     comment,
	}, nil
}

// leadingSignedInt returns the "+N"/"-N" prefix of s, or "" when s does
// not start with one.
func leadingSignedInt(s string) string {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return ""
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 1 {
		return ""
	}
	return s[:i]
}
