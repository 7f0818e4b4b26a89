// Package query holds the fixed benchmark workload.
package query

import (
	"sort"
	"strings"
)

// Category groups queries by topic and expected term frequency.
type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryScience    Category = "science"
	CategoryPolitics   Category = "politics"
	CategoryGeneral    Category = "general"
	CategorySingleWord Category = "single_word"
	CategoryRare       Category = "rare"
)

type entry struct {
	text     string
	category Category
}

var workload = [...]entry{
	{"artificial intelligence machine learning", CategoryTechnology},
	{"software development programming", CategoryTechnology},
	{"data science analytics", CategoryTechnology},
	{"cloud computing infrastructure", CategoryTechnology},
	{"cybersecurity network protection", CategoryTechnology},
	{"quantum computing research", CategoryTechnology},

	{"climate change environment", CategoryScience},
	{"space exploration technology", CategoryScience},
	{"medical research health", CategoryScience},
	{"renewable energy solar", CategoryScience},
	{"genetic engineering biology", CategoryScience},

	{"economic policy government", CategoryPolitics},
	{"election campaign politics", CategoryPolitics},
	{"international relations diplomacy", CategoryPolitics},

	{"education system reform", CategoryGeneral},
	{"transportation infrastructure", CategoryGeneral},
	{"financial markets investment", CategoryGeneral},
	{"social media platform", CategoryGeneral},
	{"healthcare insurance coverage", CategoryGeneral},

	{"technology", CategorySingleWord},
	{"science", CategorySingleWord},
	{"education", CategorySingleWord},

	{"quantum entanglement photon", CategoryRare},
	{"blockchain cryptocurrency decentralized", CategoryRare},
}

// Set returns the benchmark queries in their canonical order.
// Every call returns a fresh slice.
func Set() []string {
	out := make([]string, len(workload))
	for i, e := range workload {
		out[i] = e.text
	}
	return out
}

// CategoryOf returns the category of a query from Set, or false for unknown text.
func CategoryOf(q string) (Category, bool) {
	for _, e := range workload {
		if e.text == q {
			return e.category, true
		}
	}
	return "", false
}

// Stats describes the shape of a query set.
type Stats struct {
	Count      int
	MinTerms   int
	MaxTerms   int
	MeanTerms  float64
	ByTerms    map[int]int
	ByCategory map[Category]int
}

// Lengths returns the distinct term counts in ascending order.
func (s Stats) Lengths() []int {
	out := make([]int, 0, len(s.ByTerms))
	for n := range s.ByTerms {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Describe computes term-count and category distribution for queries.
// Queries outside the canonical set are counted under no category.
func Describe(queries []string) Stats {
	st := Stats{
		Count:      len(queries),
		ByTerms:    make(map[int]int),
		ByCategory: make(map[Category]int),
	}
	if len(queries) == 0 {
		return st
	}

	total := 0
	for i, q := range queries {
		n := len(strings.Fields(q))
		total += n
		st.ByTerms[n]++
		if i == 0 || n < st.MinTerms {
			st.MinTerms = n
		}
		if n > st.MaxTerms {
			st.MaxTerms = n
		}
		if c, ok := CategoryOf(q); ok {
			st.ByCategory[c]++
		}
	}
	st.MeanTerms = float64(total) / float64(len(queries))
	return st
}
