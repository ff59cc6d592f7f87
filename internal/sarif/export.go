package sarif

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/blockscope-dev/blockscope/internal/findings"
)

const (
	ToolName           = "BlockScope"
	ToolInformationURI = "https://semgrep.dev"

	// FingerprintKey names the partial fingerprint attached to every result.
	FingerprintKey = "blockscopeFindingHash/v1"
)

var nonRuleChars = regexp.MustCompile(`[^a-z0-9]+`)

// FromFindings converts scan findings for the contract artifactName into a SARIF report.
// Each distinct title becomes a rule.
func FromFindings(artifactName string, list []findings.Finding) (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(ToolName, ToolInformationURI)
	for _, f := range list {
		level := levelFor(f.Severity)
		rule := run.AddRule(ruleID(f.Title)).
			WithDescription(f.Title).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: level})

		region := sarif.NewRegion()
		if f.HasLine() {
			region = region.WithStartLine(f.Line())
		}
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(artifactName)).
				WithRegion(region),
		)

		message := f.Title
		if f.Description != "" {
			message = fmt.Sprintf("%s: %s", f.Title, f.Description)
		}
		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(message)).
			WithLevel(level).
			WithLocations([]*sarif.Location{location})
		result.PartialFingerprints = map[string]interface{}{FingerprintKey: fingerprint(rule.ID, f)}
		run.AddResult(result)
	}
	report.AddRun(run)

	return report, nil
}

// Write encodes the findings as an indented SARIF document.
func Write(w io.Writer, artifactName string, list []findings.Finding) error {
	report, err := FromFindings(artifactName, list)
	if err != nil {
		return err
	}
	return report.PrettyWrite(w)
}

// levelFor maps a severity onto a SARIF level.
func levelFor(s findings.Severity) string {
	switch s {
	case findings.SeverityCritical, findings.SeverityHigh:
		return "error"
	case findings.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func ruleID(title string) string {
	id := strings.Trim(nonRuleChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if id == "" {
		return "finding"
	}
	return id
}

// fingerprint hashes the rule with the trimmed snippet lines. Findings without code
// hash the line number instead.
func fingerprint(rule string, f findings.Finding) string {
	key := rule + "|"
	if f.HasCode() {
		var lines []string
		for _, l := range strings.Split(f.Snippet(), "\n") {
			if l = strings.TrimSpace(l); l != "" {
				lines = append(lines, l)
			}
		}
		key += strings.Join(lines, "\n")
	} else {
		key += fmt.Sprintf("line:%d", f.Line())
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
