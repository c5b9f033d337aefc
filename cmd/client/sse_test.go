package main

import (
	"strings"
	"testing"
)

func TestReadProgressFrames(t *testing.T) {
	stream := "data: {\"progress\":10}\n\n" +
		": comment\n\n" +
		"data: not json\n\n" +
		"data: {\"progress\":100}\n\n"

	var got []int
	if err := readProgressFrames(strings.NewReader(stream), func(p int) { got = append(got, p) }); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != 10 || got[1] != 100 {
		t.Fatalf("unexpected progress %v", got)
	}
}
