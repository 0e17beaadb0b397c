package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/conceptmap/conceptmap/internal/wikidata"
)

// promptTerm asks for a concept to map.
func promptTerm(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Enter a concept to map (e.g., 'Learning'): ")
	line, err := readLine(in)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptCandidate shows the ranked candidates and asks which one was meant.
// An unparseable or out-of-range selection is a caller-input error.
func promptCandidate(in io.Reader, out io.Writer, candidates []wikidata.Candidate) (wikidata.Candidate, error) {
	fmt.Fprintf(out, "\nFound %d candidates. Which one did you mean?\n", len(candidates))

	labelWidth := 0
	for _, c := range candidates {
		if w := runewidth.StringWidth(c.Label); w > labelWidth {
			labelWidth = w
		}
	}

	for i, c := range candidates {
		label := c.Label
		if label == "" {
			label = "No Label"
		}
		desc := c.Description
		if desc == "" {
			desc = "No Description"
		}

		fmt.Fprintf(out, "[%d] %s  %s\n",
			i+1,
			color.Bold.Sprint(runewidth.FillRight(label, labelWidth)),
			color.Cyan.Sprintf("(%s)", c.ID))
		fmt.Fprintf(out, "    %s\n", color.Gray.Sprint(desc))
		if c.URL != "" {
			fmt.Fprintf(out, "    %s\n", color.Gray.Sprint(c.URL))
		}
	}

	fmt.Fprintf(out, "Select a number (1-%d): ", len(candidates))
	line, err := readLine(in)
	if err != nil {
		return wikidata.Candidate{}, err
	}

	index, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || index < 1 || index > len(candidates) {
		return wikidata.Candidate{}, fmt.Errorf("invalid selection")
	}
	return candidates[index-1], nil
}

// promptDepth asks for a traversal depth, defaulting to 1 on bad input.
// The caller clamps the value to the supported range.
func promptDepth(in io.Reader, out io.Writer) int {
	fmt.Fprint(out, "Enter traversal depth (1-3, default=1): ")
	line, err := readLine(in)
	if err != nil {
		return 1
	}
	depth, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 1
	}
	return depth
}

func readLine(in io.Reader) (string, error) {
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
