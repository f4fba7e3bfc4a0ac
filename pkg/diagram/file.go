package diagram

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ReadRequestFile reads a request from a YAML file and validates it. JSON
// files parse too, since YAML is a superset.
func ReadRequestFile(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request %s: %w", path, err)
	}

	var req Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("decode request %s: %w", path, err)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// WriteRequestFile writes a request to a YAML file, typically as a starting
// point for editing.
func WriteRequestFile(req *Request, path string) error {
	data, err := yaml.Marshal(req)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
