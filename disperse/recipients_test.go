package disperse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/disperse/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadRecipients_Text(t *testing.T) {
	content := addr1 + " 1\n" + addr2 + "=2\n"
	for _, name := range []string{"list.txt", "list.csv", "LIST.CSV"} {
		text, err := LoadRecipients(writeFile(t, name, content))
		require.NoError(t, err)
		assert.Equal(t, content, text)
	}
}

func TestLoadRecipients_YAML(t *testing.T) {
	content := `
- address: ` + addr1 + `
  amount: 1.50
- address: ` + addr2 + `
  amount: "0.000000000000000001"
- address: nope
  amount: 3
`
	text, err := LoadRecipients(writeFile(t, "list.yaml", content))
	require.NoError(t, err)

	result := Parse(text)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "1500000000000000000", result.Entries[0].Amount.String())
	assert.Equal(t, "1", result.Entries[1].Amount.String())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].LineNumber)
	assert.Equal(t, model.ReasonInvalidAddress, result.Errors[0].Reason)
}

func TestLoadRecipients_Errors(t *testing.T) {
	_, err := LoadRecipients(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = LoadRecipients(writeFile(t, "list.json", "[]"))
	assert.ErrorContains(t, err, "unsupported")

	_, err = LoadRecipients(writeFile(t, "list.yml", "address: x"))
	assert.ErrorContains(t, err, "unmarshal")
}
