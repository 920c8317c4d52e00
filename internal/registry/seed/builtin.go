// Package seed holds the example personas materialized for users with no configurations.
package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/promptdial/promptdial/pkg/models"
)

//go:embed personas.json
var builtinPersonaData []byte

// BuiltinPersonas returns a fresh copy of the example personas. Ids,
// timestamps, slugs and system prompts are left for the caller to assign.
func BuiltinPersonas() ([]*models.Persona, error) {
	return loadPersonas(builtinPersonaData)
}

func loadPersonas(data []byte) ([]*models.Persona, error) {
	var personas []*models.Persona
	if err := json.Unmarshal(data, &personas); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return personas, nil
}
