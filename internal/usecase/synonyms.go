package usecase

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/synonyms.yaml
var defaultSynonymsYAML []byte

// SynonymClass is one equivalence class of ingredient terms
type SynonymClass struct {
	Name  string   `yaml:"name"`
	Terms []string `yaml:"terms"`
}

// synonymFile is the on-disk layout of a synonym table
type synonymFile struct {
	Version string         `yaml:"version"`
	Classes []SynonymClass `yaml:"classes"`
}

// SynonymTable resolves normalized ingredient terms to equivalence classes.
// It is read-only after loading.
type SynonymTable struct {
	version   string
	classOf   map[string]string
	maxTokens int
}

// LoadSynonymTable parses a YAML synonym table, normalizing every term with n
func LoadSynonymTable(r io.Reader, n *Normalizer) (*SynonymTable, error) {
	var file synonymFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode synonym table: %w", err)
	}

	table := &SynonymTable{
		version: file.Version,
		classOf: make(map[string]string),
	}
	for _, class := range file.Classes {
		if class.Name == "" {
			return nil, fmt.Errorf("synonym class without a name")
		}
		for _, term := range class.Terms {
			norm := n.Normalize(term)
			if norm.Empty() {
				continue
			}
			if existing, ok := table.classOf[norm.Text]; ok && existing != class.Name {
				return nil, fmt.Errorf("term %q is in both %q and %q", norm.Text, existing, class.Name)
			}
			table.classOf[norm.Text] = class.Name
			if len(norm.Tokens) > table.maxTokens {
				table.maxTokens = len(norm.Tokens)
			}
		}
	}
	return table, nil
}

// LoadSynonymFile reads a synonym table from path
func LoadSynonymFile(path string, n *Normalizer) (*SynonymTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open synonym table: %w", err)
	}
	defer f.Close()
	return LoadSynonymTable(f, n)
}

// DefaultSynonymTable returns the table bundled with the binary
func DefaultSynonymTable(n *Normalizer) (*SynonymTable, error) {
	return LoadSynonymTable(bytes.NewReader(defaultSynonymsYAML), n)
}

// Version returns the table's version label
func (t *SynonymTable) Version() string {
	if t == nil {
		return ""
	}
	return t.version
}

// Len returns the number of distinct terms
func (t *SynonymTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.classOf)
}

// ClassOf resolves an ingredient to its equivalence class. The whole text is
// tried first, then the longest contiguous run of tokens that names a term.
func (t *SynonymTable) ClassOf(ing NormalizedIngredient) (string, bool) {
	if t == nil || ing.Empty() {
		return "", false
	}
	if class, ok := t.classOf[ing.Text]; ok {
		return class, true
	}

	longest := min(t.maxTokens, len(ing.Tokens)-1)
	for size := longest; size >= 1; size-- {
		for start := 0; start+size <= len(ing.Tokens); start++ {
			key := strings.Join(ing.Tokens[start:start+size], " ")
			if class, ok := t.classOf[key]; ok {
				return class, true
			}
		}
	}
	return "", false
}
