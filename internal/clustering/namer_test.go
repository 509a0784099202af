package clustering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameClusters_TopTerms(t *testing.T) {
	texts := map[int]string{
		0: "kubernetes deployment kubernetes cluster kubernetes pods deployment scaling",
		1: "invoice payment invoice billing payment receipts invoice quarterly",
	}

	names := NameClusters(texts, 2)
	require.Len(t, names, 2)

	assert.Contains(t, names[0], "Kubernetes")
	assert.Contains(t, names[1], "Invoice")
	assert.Contains(t, names[0], " & ")
}

func TestNameClusters_TermsAreTitleCased(t *testing.T) {
	texts := map[int]string{
		0: "shakespeare drama shakespeare theatre drama shakespeare",
	}

	names := NameClusters(texts, 2)
	for _, part := range strings.Split(names[0], " & ") {
		assert.Equal(t, strings.ToUpper(part[:1]), part[:1], "term %q not title-cased", part)
	}
}

func TestNameClusters_Deterministic(t *testing.T) {
	texts := map[int]string{
		0: "alpha beta gamma alpha beta",
		1: "delta epsilon zeta delta epsilon",
		2: "storage network compute storage network",
	}

	first := NameClusters(texts, 2)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, NameClusters(texts, 2))
	}
}

func TestNameClusters_TieBreakAlphabetical(t *testing.T) {
	// Two terms with identical frequency and identical document frequency
	// tie on score; the name must order them alphabetically.
	texts := map[int]string{
		0: "zebra apple zebra apple",
	}

	names := NameClusters(texts, 2)
	assert.Equal(t, "Apple & Zebra", names[0])
}

func TestNameClusters_StopwordsExcluded(t *testing.T) {
	texts := map[int]string{
		0: "the and of the report budget the and report",
	}

	names := NameClusters(texts, 2)
	for _, stop := range []string{"the", "and", "of"} {
		assert.NotContains(t, strings.Split(names[0], " & "), stop)
	}
}

func TestNameClusters_Fallback(t *testing.T) {
	texts := map[int]string{
		7: "!!! 123 ... ???",
	}

	names := NameClusters(texts, 2)
	assert.Equal(t, "Cluster 7", names[7])
}

func TestNameClusters_FewerTermsThanRequested(t *testing.T) {
	texts := map[int]string{
		0: "solitary solitary solitary",
	}

	names := NameClusters(texts, 2)
	assert.Equal(t, "Solitary", names[0])
}

func TestNameClusters_Empty(t *testing.T) {
	names := NameClusters(nil, 2)
	assert.Empty(t, names)
}
