// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slrkit/searcheval/pkg/types"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{
			"case insensitive",
			`TITLE-ABS-KEY("code smell")`,
			`title-abs-key("code smell")`,
			true,
		},
		{
			"whitespace insensitive",
			`"code smell"  AND   "detection"`,
			`"code smell" AND "detection"`,
			true,
		},
		{
			"leading and trailing space",
			`  "code smell" AND refactoring `,
			`"code smell" AND refactoring`,
			true,
		},
		{
			"single quotes equal double quotes",
			`'code smell' AND 'detection'`,
			`"code smell" AND "detection"`,
			true,
		},
		{
			"curly quotes equal straight quotes",
			`“code smell” AND ‘detection’`,
			`"code smell" AND "detection"`,
			true,
		},
		{
			"different terms differ",
			`"code smell"`,
			`"design smell"`,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa, fb := Fingerprint(tt.a), Fingerprint(tt.b)
			if tt.same {
				assert.Equal(t, fa, fb)
			} else {
				assert.NotEqual(t, fa, fb)
			}
		})
	}
}

func TestQueryCacheRoundTrip(t *testing.T) {
	cache := newQueryCache(0) // default size

	fp := Fingerprint(`"code smell"`)
	_, ok := cache.get(fp)
	require.False(t, ok)

	want := &types.SearchResult{
		Query:        `"code smell"`,
		TotalResults: 2,
		Entries: []types.Entry{
			{Identifier: "SCOPUS_ID:1", Title: "A"},
			{Identifier: "SCOPUS_ID:2", Title: "B"},
		},
	}
	cache.put(fp, want)

	got, ok := cache.get(fp)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// A whitespace variant of the same query hits the same slot.
	got, ok = cache.get(Fingerprint(`  "code  smell" `))
	require.True(t, ok)
	assert.Equal(t, want, got)
}
