package findings

import "github.com/fatih/color"

// Treatment describes how a severity is displayed.
type Treatment struct {
	Label string
	// Weight ranks the visual emphasis, CRITICAL being the heaviest.
	Weight int
	// Class is the CSS class used by the web templates.
	Class string
	// Color is the terminal colour attribute.
	Color color.Attribute
}

var treatments = map[Severity]Treatment{
	SeverityCritical: {Label: "CRITICAL", Weight: 4, Class: "severity-critical", Color: color.FgRed},
	SeverityHigh:     {Label: "HIGH", Weight: 3, Class: "severity-high", Color: color.FgHiRed},
	SeverityMedium:   {Label: "MEDIUM", Weight: 2, Class: "severity-medium", Color: color.FgYellow},
	SeverityLow:      {Label: "LOW", Weight: 1, Class: "severity-low", Color: color.FgBlue},
}

// NeutralTreatment is used for severities outside the recognized set.
var NeutralTreatment = Treatment{Label: "UNKNOWN", Weight: 0, Class: "severity-neutral", Color: color.FgWhite}

// DisplayTreatmentFor maps a severity to its display treatment.
// Unrecognized values fall back to NeutralTreatment.
func DisplayTreatmentFor(s Severity) Treatment {
	if t, ok := treatments[s]; ok {
		return t
	}
	return NeutralTreatment
}
