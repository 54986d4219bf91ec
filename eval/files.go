package eval

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Transition is one ground-truth transition case.
type Transition struct {
	From       string         `json:"uuid_1"`
	To         string         `json:"uuid_2"`
	WordDict   map[string]int `json:"word_dict"`
	PathLength int            `json:"path_length"`
}

// LoadQueries reads {"queries": ["<id>", ...]}.
func LoadQueries(filename string) ([]string, error) {
	var doc struct {
		Queries []string `json:"queries"`
	}
	if err := readJSON(filename, &doc); err != nil {
		return nil, err
	}
	return doc.Queries, nil
}

// LoadTruth reads {"ground_truth": {"<id>": ["<id>", ...]}}.
func LoadTruth(filename string) (map[string][]string, error) {
	var doc struct {
		GroundTruth map[string][]string `json:"ground_truth"`
	}
	if err := readJSON(filename, &doc); err != nil {
		return nil, err
	}
	return doc.GroundTruth, nil
}

// LoadTransitions reads {"transitions": [{"uuid_1", "uuid_2", "word_dict", "path_length"}]}.
func LoadTransitions(filename string) ([]Transition, error) {
	var doc struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := readJSON(filename, &doc); err != nil {
		return nil, err
	}
	return doc.Transitions, nil
}

func readJSON(filename string, target interface{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("eval: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("eval: %s: %w", filename, err)
	}
	return nil
}
