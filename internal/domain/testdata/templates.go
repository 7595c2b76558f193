package testdata

import (
	"fmt"
	"math/rand"

	"github.com/matheusft/hackathon-evaluator/internal/domain/model"
)

// samplesPerTemplate is the number of test cases each template family emits.
const samplesPerTemplate = 3

// Jitter ranges applied during expansion.
const (
	numberJitter  = 2
	datasetJitter = 5
)

// template is one family of related test cases.
type template struct {
	name        string
	description string
	samples     []map[string]any
	expected    map[string]any
}

// expand materializes the template's samples with seeded jitter applied.
func (t template) expand(rng *rand.Rand) []model.TestCase {
	cases := make([]model.TestCase, 0, len(t.samples))
	for i, sample := range t.samples {
		cases = append(cases, model.TestCase{
			ID:             fmt.Sprintf("%s_%d", t.name, i+1),
			Type:           t.name,
			Description:    t.description,
			Input:          customize(sample, rng),
			ExpectedOutput: t.expected,
		})
	}
	return cases
}

// customize copies a sample and applies deterministic variation.
func customize(sample map[string]any, rng *rand.Rand) map[string]any {
	out := make(map[string]any, len(sample))
	for k, v := range sample {
		out[k] = v
	}

	switch {
	case out["numbers"] != nil:
		nums := out["numbers"].([]int)
		jittered := make([]int, len(nums))
		for i, n := range nums {
			jittered[i] = n + rng.Intn(2*numberJitter+1) - numberJitter
		}
		out["numbers"] = jittered
	case out["dataset"] != nil:
		data := out["dataset"].([]int)
		jittered := make([]int, len(data))
		for i, n := range data {
			jittered[i] = n + rng.Intn(2*datasetJitter+1) - datasetJitter
		}
		out["dataset"] = jittered
	case out["text"] != nil:
		out["text"] = textPool[rng.Intn(len(textPool))]
	}
	return out
}

// textPool feeds text_processing variation.
var textPool = []string{
	"Hello world",
	"Python programming",
	"Machine Learning",
	"Data Science",
	"Artificial Intelligence",
	"Deep Learning",
}

// builtinTemplates returns the fixed template set every batch is built from.
func builtinTemplates() []template {
	return []template{
		{
			name:        "simple_math",
			description: "Basic mathematical operations",
			samples: []map[string]any{
				{"operation": "add", "numbers": []int{5, 3}},
				{"operation": "multiply", "numbers": []int{4, 7}},
				{"operation": "subtract", "numbers": []int{10, 4}},
			},
			expected: map[string]any{
				"result":              "Numeric result of the operation",
				"operation_performed": "Description of operation",
			},
		},
		{
			name:        "text_processing",
			description: "Text analysis and processing",
			samples: []map[string]any{
				{"text": "Hello world", "task": "count_words"},
				{"text": "Python programming", "task": "reverse"},
				{"text": "Machine Learning", "task": "uppercase"},
			},
			expected: map[string]any{
				"result":         "Processed text result",
				"original_text":  "Original input text",
				"task_completed": "Boolean indicating completion",
			},
		},
		{
			name:        "data_analysis",
			description: "Data analysis and statistics",
			samples: []map[string]any{
				{"dataset": []int{1, 2, 3, 4, 5}, "task": "calculate_mean"},
				{"dataset": []int{10, 20, 15, 25, 30}, "task": "find_max"},
				{"dataset": []int{2, 4, 6, 8, 10}, "task": "sum_all"},
			},
			expected: map[string]any{
				"result":             "Calculated statistical result",
				"dataset_size":       "Number of data points processed",
				"calculation_method": "Method used for calculation",
			},
		},
	}
}
