package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// PromptData is injected into the answer prompt template.
type PromptData struct {
	Query    string
	Episodes string
	Snippets string
}

// PromptManager loads and executes the answer prompt template. Resolution
// order: explicit prompt string or file from config, then prompt.txt in the
// config directory, then the embedded default.
type PromptManager struct {
	promptFile   string
	promptString string
	configDir    string
}

// NewPromptManager creates a prompt manager. promptSetting may be empty, a
// template string, or a path to a template file.
func NewPromptManager(configDir, promptSetting string) *PromptManager {
	pm := &PromptManager{configDir: configDir}

	if promptSetting != "" {
		if IsLikelyFilePath(promptSetting) && FileExists(promptSetting) {
			pm.promptFile = promptSetting
		} else {
			pm.promptString = promptSetting
		}
	}

	return pm
}

// BuildPrompt renders the answer prompt for a query with both context blocks.
func (pm *PromptManager) BuildPrompt(data PromptData) (string, error) {
	tmplContent, err := pm.templateContent()
	if err != nil {
		return "", err
	}

	tmpl, err := template.New("prompt").Parse(tmplContent)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}

func (pm *PromptManager) templateContent() (string, error) {
	if pm.promptString != "" {
		return pm.promptString, nil
	}

	promptFile := pm.promptFile
	if promptFile == "" {
		promptFile = filepath.Join(pm.configDir, "prompt.txt")
	}
	if content, err := os.ReadFile(promptFile); err == nil {
		return string(content), nil
	}

	content, err := defaultFS.ReadFile("prompt.txt")
	if err != nil {
		return "", fmt.Errorf("reading embedded prompt template: %w", err)
	}
	return string(content), nil
}

// IsLikelyFilePath uses heuristics to decide whether a string is a file path
// rather than an inline template.
func IsLikelyFilePath(s string) bool {
	if strings.Contains(s, "/") || strings.Contains(s, "\\") {
		return true
	}
	if strings.Contains(s, ".txt") || strings.Contains(s, ".md") ||
		strings.Contains(s, ".template") || strings.Contains(s, ".tmpl") {
		return true
	}
	if len(s) > 200 {
		return false
	}
	return !strings.Contains(s, " ") && !strings.Contains(s, "\n")
}
