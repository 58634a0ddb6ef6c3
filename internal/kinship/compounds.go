package kinship

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const compoundsEnv = "VAMSHAVALI_COMPOUNDS_YAML"

//go:embed compounds.yaml
var compoundsFS embed.FS

// Compound is a curated multi-hop path mapped straight to a term.
type Compound struct {
	Key   string         `json:"key"`
	Path  []RelationType `json:"path"`
	Term  string         `json:"term"`
	Roman string         `json:"roman,omitempty"`
}

type yamlCompoundTable struct {
	Table     string              `yaml:"table"`
	Version   int                 `yaml:"version"`
	Compounds []yamlCompoundEntry `yaml:"compounds"`
}

type yamlCompoundEntry struct {
	Path  []string `yaml:"path"`
	Term  string   `yaml:"term"`
	Roman string   `yaml:"roman"`
}

// used when the YAML table is missing or invalid
var fallbackCompounds = []yamlCompoundEntry{
	{Path: []string{"ama", "mama"}, Term: "मामा (Mama)", Roman: "Mama"},
	{Path: []string{"buwa", "fupu"}, Term: "फुपू (Phupu)", Roman: "Phupu"},
	{Path: []string{"buwa", "daju"}, Term: "काका / ठूलो बुवा", Roman: "Kaka / Thulo Buwa"},
	{Path: []string{"buwa", "bhai"}, Term: "काका / ठूलो बुवा", Roman: "Kaka / Thulo Buwa"},
	{Path: []string{"ama", "didi"}, Term: "सानी आमा / ठूली आमा", Roman: "Sani Aama / Thuli Aama"},
	{Path: []string{"ama", "bahini"}, Term: "सानी आमा / ठूली आमा", Roman: "Sani Aama / Thuli Aama"},
}

var (
	compoundsOnce  sync.Once
	compoundsCache map[string]Compound
	compoundsErr   error
)

// PathKey joins a path the way compound keys are written: "ama,mama".
func PathKey(path []RelationType) string {
	parts := make([]string, len(path))
	for i, t := range path {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// DefaultCompounds returns the process-wide table. On a load failure it
// returns the built-in entries together with the load error.
func DefaultCompounds() (map[string]Compound, error) {
	compoundsOnce.Do(func() {
		compoundsCache, compoundsErr = loadCompounds()
		if compoundsErr != nil {
			compoundsCache, _ = buildCompounds(fallbackCompounds)
		}
	})
	return compoundsCache, compoundsErr
}

func loadCompounds() (map[string]Compound, error) {
	data, err := readCompoundsYAML()
	if err != nil {
		return nil, err
	}
	return ParseCompounds(data)
}

func readCompoundsYAML() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(compoundsEnv)); path != "" {
		return os.ReadFile(path)
	}
	return compoundsFS.ReadFile("compounds.yaml")
}

// ParseCompounds decodes and validates a compound table document.
func ParseCompounds(data []byte) (map[string]Compound, error) {
	var doc yamlCompoundTable
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.Table) != "compounds" {
		return nil, fmt.Errorf("unexpected table: %q", doc.Table)
	}
	if len(doc.Compounds) == 0 {
		return nil, errors.New("no compounds defined")
	}
	return buildCompounds(doc.Compounds)
}

func buildCompounds(entries []yamlCompoundEntry) (map[string]Compound, error) {
	out := make(map[string]Compound, len(entries))
	for i, e := range entries {
		if len(e.Path) < 2 {
			return nil, fmt.Errorf("compound %d: path needs at least two steps", i)
		}
		if strings.TrimSpace(e.Term) == "" {
			return nil, fmt.Errorf("compound %d: term is required", i)
		}
		path := make([]RelationType, 0, len(e.Path))
		for _, raw := range e.Path {
			t, err := ParseRelationType(raw)
			if err != nil {
				return nil, fmt.Errorf("compound %d: %w", i, err)
			}
			path = append(path, t)
		}
		key := PathKey(path)
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("compound %d: duplicate path %q", i, key)
		}
		out[key] = Compound{Key: key, Path: path, Term: strings.TrimSpace(e.Term), Roman: strings.TrimSpace(e.Roman)}
	}
	return out, nil
}
