// Package cache fingerprints semantically equivalent requests, assigns
// context-sensitive TTLs, and refuses to store anything that failed
// moderation.
package cache

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/studymesh/tutorcore/core"
)

// NormalizeQuery canonicalizes a query for fingerprinting: lowercase,
// punctuation stripped, whitespace collapsed. Idempotent.
func NormalizeQuery(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range strings.ToLower(query) {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9', r == ' ', r > 127:
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Key derives the cache key for a request. The fingerprint hashes the
// normalized query plus every semantically relevant field; user and session
// identifiers scope the key outside the hash so entries never leak across
// users and scope invalidation stays a prefix match.
func Key(req core.Request) string {
	h := xxhash.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.WriteString(p)
			_, _ = h.WriteString("\x1f")
		}
	}

	write(NormalizeQuery(req.Query), string(req.Classification()), string(req.Mode))
	if c := req.Course; c != nil {
		write(c.CourseID, c.Subject, fmt.Sprint(c.GradeLevel), c.CurrentLesson)
	}
	if l := req.Learner; l != nil {
		write(fmt.Sprint(l.Age), fmt.Sprint(l.Grade), l.LearningStyle, l.Language)
	}

	return fmt.Sprintf("resp:u:%s:s:%s:%016x", req.UserID, req.SessionID, h.Sum64())
}

// UserScope returns the invalidation pattern covering all of a user's
// entries.
func UserScope(userID string) string {
	return fmt.Sprintf("resp:u:%s:*", userID)
}

// SessionScope returns the invalidation pattern covering one session.
func SessionScope(userID, sessionID string) string {
	return fmt.Sprintf("resp:u:%s:s:%s:*", userID, sessionID)
}
