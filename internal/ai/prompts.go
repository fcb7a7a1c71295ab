package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/yaml_analysis.md
var yamlAnalysisPromptRaw string

// YAMLAnalysisTemplate is the parsed prompt template for configuration analysis.
// Parsed once at package init; reused on every Analyze call.
var YAMLAnalysisTemplate = template.Must(template.New("yaml_analysis").Parse(yamlAnalysisPromptRaw))

// Section headings the prompt asks for, in order.
var SectionHeadings = []string{"Explanation:", "Issues:", "Suggestions:"}
