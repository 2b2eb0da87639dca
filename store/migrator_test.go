package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSQL(t *testing.T) {
	script := `-- comment; with a semicolon
CREATE TABLE a (x TEXT DEFAULT 'a;b');

CREATE INDEX i ON a (x);
`
	got := splitSQL(script)
	assert.Equal(t, []string{
		"CREATE TABLE a (x TEXT DEFAULT 'a;b')",
		"CREATE INDEX i ON a (x)",
	}, got)

	assert.Empty(t, splitSQL("-- only a comment\n\n"))
}
