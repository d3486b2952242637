package runner

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Summary buckets.
const (
	BucketCommented = "commented"
	BucketMoved     = "moved"
	BucketFailed    = "failed"
)

// Summary counts what a run did, per card.
type Summary struct {
	Commits int64
	Counts  map[string][]*statCount
}

func NewSummary() *Summary {
	return &Summary{Counts: make(map[string][]*statCount)}
}

func (s *Summary) Add(bucket, name string, n int64) {
	counts := s.Counts[bucket]
	count, found := s.findCount(name, counts)
	if !found {
		counts = append(counts, count)
	}
	count.Add(n)

	s.Counts[bucket] = counts
}

// Total returns the sum of every count in bucket.
func (s *Summary) Total(bucket string) int64 {
	var n int64
	for _, c := range s.Counts[bucket] {
		n += c.n
	}
	return n
}

// Get returns the count for name in bucket.
func (s *Summary) Get(bucket, name string) int64 {
	c, found := s.findCount(name, s.Counts[bucket])
	if !found {
		return 0
	}
	return c.n
}

func (s *Summary) findCount(name string, counts []*statCount) (*statCount, bool) {
	for _, c := range counts {
		if c.label == name {
			return c, true
		}
	}
	return &statCount{label: name}, false
}

func (s *Summary) sortedBuckets() []string {
	buckets := make([]string, len(s.Counts))
	i := 0
	for name := range s.Counts {
		buckets[i] = name
		i++
	}
	sort.Strings(buckets)
	return buckets
}

type statCount struct {
	label string
	n     int64
}

func (c *statCount) Add(n int64) {
	c.n += n
}

func (s *Summary) TextSummary(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(fmt.Sprintf("%d commits\n\n", s.Commits))

	for _, name := range s.sortedBuckets() {
		counts := s.Counts[name]
		sort.SliceStable(counts, func(i, j int) bool {
			if counts[i].n == counts[j].n {
				return counts[i].label < counts[j].label
			}
			return counts[i].n > counts[j].n
		})
		bw.WriteString(fmt.Sprintf("%s:\n", toTitle(name)))
		for _, count := range counts {
			label := count.label
			if label == "" {
				label = "n/a"
			}
			bw.WriteString(fmt.Sprintf("  %20s\t\t%d\n", label, count.n))
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

var nonAlphaRE = regexp.MustCompile(`[^A-Za-z]`)

func toTitle(s string) string {
	s = nonAlphaRE.ReplaceAllLiteralString(s, " ")
	return cases.Title(language.English).String(s)
}
