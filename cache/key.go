package cache

import "encoding/json"

// GenerateKey derives a stable cache key from an operation name and its
// parameters. Parameters are serialized with sorted keys, so two
// logically identical calls always map to the same key regardless of
// the order arguments were supplied in.
func GenerateKey(operation string, params map[string]string) string {
	payload := struct {
		Operation string            `json:"operation"`
		Params    map[string]string `json:"params"`
	}{Operation: operation, Params: params}

	// map keys marshal in sorted order, which is what makes this stable
	data, _ := json.Marshal(payload)
	return string(data)
}
