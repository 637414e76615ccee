package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CSVAnalysis describes what a quick scan of a CSV stream found. It is
// used to warn the operator before an import upload, not to reject it.
type CSVAnalysis struct {
	Delimiter           rune    `json:"delimiter"`
	Columns             int     `json:"columns"`
	SampleRows          int     `json:"sample_rows"`
	DelimiterConfidence float64 `json:"delimiter_confidence"` // 0.0 to 1.0
}

const sampleLines = 10

// AnalyzeCSV scans the first lines of a CSV stream and guesses the
// delimiter and column count. Comma and semicolon are the only
// candidates, matching what the store's importer accepts.
func AnalyzeCSV(reader io.Reader) (*CSVAnalysis, error) {
	scanner := bufio.NewScanner(reader)
	var lines []string
	for i := 0; i < sampleLines && scanner.Scan(); i++ {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read csv sample: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	delimiter, confidence := detectDelimiter(lines)

	return &CSVAnalysis{
		Delimiter:           delimiter,
		Columns:             len(strings.Split(lines[0], string(delimiter))),
		SampleRows:          len(lines),
		DelimiterConfidence: confidence,
	}, nil
}

func detectDelimiter(lines []string) (rune, float64) {
	best := ','
	bestScore := delimiterConsistency(lines, ',')
	if score := delimiterConsistency(lines, ';'); score > bestScore {
		best = ';'
		bestScore = score
	}
	return best, bestScore
}

// delimiterConsistency scores a candidate by how stable the column count
// stays across the sampled lines. A candidate that never splits a line
// scores zero.
func delimiterConsistency(lines []string, delimiter rune) float64 {
	if len(lines) < 2 {
		return 0.0
	}

	sep := string(delimiter)
	firstColumns := len(strings.Split(lines[0], sep))
	if firstColumns < 2 {
		return 0.0
	}

	consistent := 0
	for _, line := range lines {
		columns := len(strings.Split(line, sep))
		// Allow one column of drift for trailing empty fields.
		if columns >= firstColumns-1 && columns <= firstColumns+1 {
			consistent++
		}
	}

	consistency := float64(consistent) / float64(len(lines))

	columnBonus := float64(firstColumns) * 0.1
	if columnBonus > 0.3 {
		columnBonus = 0.3
	}
	return consistency + columnBonus
}
