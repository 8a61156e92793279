// Copyright © 2024 The ruby-lint authors

package analysis

import (
	"encoding/json"
	"io"
	"strings"
)

// SARIF 2.1.0 structures, reduced to the fields the log actually carries.

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string           `json:"id"`
	ShortDescription sarifMessage     `json:"shortDescription"`
	FullDescription  *sarifMessage    `json:"fullDescription,omitempty"`
	DefaultConfig    *sarifRuleConfig `json:"defaultConfiguration,omitempty"`
}

type sarifRuleConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// FormatSARIF writes diagnostics as a SARIF 2.1.0 log with one run.  The
// given analyzers become the driver's rule metadata, so viewers can show
// documentation next to each result.
func FormatSARIF(w io.Writer, diags []Diagnostic, analyzers []*Analyzer) error {
	driver := sarifDriver{
		Name:           "ruby-lint",
		InformationURI: "https://github.com/h2dkb/ruby-lint",
	}
	for _, a := range analyzers {
		summary := a.Doc
		if i := strings.IndexByte(summary, '\n'); i >= 0 {
			summary = summary[:i]
		}
		rule := sarifRule{
			ID:               a.Name,
			ShortDescription: sarifMessage{Text: summary},
			DefaultConfig:    &sarifRuleConfig{Level: sarifLevel(a.Severity)},
		}
		if a.Doc != summary {
			rule.FullDescription = &sarifMessage{Text: a.Doc}
		}
		driver.Rules = append(driver.Rules, rule)
	}

	results := make([]sarifResult, 0, len(diags))
	for _, d := range diags {
		message := d.Message
		for _, note := range d.Notes {
			message += "\n" + note
		}
		result := sarifResult{
			RuleID:  d.Analyzer,
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: message},
		}
		if d.Pos.File != "" {
			result.Locations = []sarifLocation{{
				PhysicalLocation: sarifPhysical{
					ArtifactLocation: sarifArtifact{URI: d.Pos.File},
					Region: &sarifRegion{
						StartLine:   d.Pos.Line,
						StartColumn: d.Pos.Col,
						EndLine:     d.Pos.EndLine,
						EndColumn:   d.Pos.EndCol,
					},
				},
			}}
		}
		results = append(results, result)
	}

	log := sarifLog{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{{Tool: sarifTool{Driver: driver}, Results: results}},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}

// sarifLevel maps a severity onto the SARIF level vocabulary.
func sarifLevel(s Severity) string {
	switch s.orDefault() {
	case SeverityError:
		return "error"
	case SeverityInfo:
		return "note"
	}
	return "warning"
}
