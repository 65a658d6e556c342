package disperse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlRecipient is one item of a YAML recipients list. Amount is kept as the raw
// scalar so 1.50 is not rounded through float64.
type yamlRecipient struct {
	Address string    `yaml:"address"`
	Amount  yaml.Node `yaml:"amount"`
}

// LoadRecipients reads a recipients file and returns it as parser input text.
// .txt and .csv files are returned as-is; a .yaml/.yml list of {address, amount}
// items is rendered one item per line, so line N of the result is item N.
func LoadRecipients(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read recipients file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return renderYAML(data)
	case ".txt", ".csv", "":
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported recipients file extension %q", filepath.Ext(path))
	}
}

func renderYAML(data []byte) (string, error) {
	var items []yamlRecipient
	if err := yaml.Unmarshal(data, &items); err != nil {
		return "", fmt.Errorf("failed to unmarshal recipients: %w", err)
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		// a broken item still occupies a line and is reported by the parser
		lines = append(lines, strings.TrimSpace(item.Address+" "+item.Amount.Value))
	}
	return strings.Join(lines, "\n"), nil
}
