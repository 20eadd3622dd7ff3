// Package search plans web research queries, fans them out over a fixed
// worker set, and merges the findings back into submission order.
package search

import "fmt"

// groupCount is the fixed number of concurrent search lanes. Queries are
// dealt across lanes round-robin by index, so lane sizes never differ by
// more than one.
const groupCount = 3

// Query is one planned search, tagged with its position in the plan.
type Query struct {
	Index int
	Text  string
}

// Partition deals queries across the fixed lanes by index modulo the lane
// count. Every query lands in exactly one lane and order within a lane
// follows plan order.
func Partition(queries []Query) [groupCount][]Query {
	var groups [groupCount][]Query
	for _, q := range queries {
		lane := q.Index % groupCount
		if lane < 0 {
			lane += groupCount
		}
		groups[lane] = append(groups[lane], q)
	}
	return groups
}

// Plan builds the search queries for a topic. Broader topics get more
// angles; the count stays within the lane math's comfortable range.
func Plan(topic string, depth Depth) []Query {
	angles := anglesFor(depth)
	out := make([]Query, 0, len(angles))
	for i, angle := range angles {
		out = append(out, Query{Index: i, Text: fmt.Sprintf(angle, topic)})
	}
	return out
}

// Depth controls how many angles a plan covers.
type Depth int

const (
	DepthQuick Depth = iota
	DepthStandard
	DepthDeep
)

var searchAngles = []string{
	"%s latest news",
	"%s market analysis",
	"%s outlook 2026",
	"%s 관련주 전망",
	"%s industry trends",
	"%s risks and catalysts",
	"%s institutional investor positioning",
	"%s competitive landscape",
	"%s regulatory developments",
}

func anglesFor(depth Depth) []string {
	switch depth {
	case DepthQuick:
		return searchAngles[:3]
	case DepthDeep:
		return searchAngles
	default:
		return searchAngles[:6]
	}
}
