package parser

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed team.schema.json
var teamSchema []byte

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(teamSchema))
})

// DecodeError reports a stored team document that cannot be reconstructed.
type DecodeError struct {
	Violations []string
	Err        error
}

func (e *DecodeError) Error() string {
	if len(e.Violations) > 0 {
		return "invalid team document: " + strings.Join(e.Violations, "; ")
	}
	return fmt.Sprintf("invalid team document: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeTeam serialises members as a JSON array.
func EncodeTeam(team []Member) ([]byte, error) {
	if team == nil {
		team = []Member{}
	}
	data, err := json.Marshal(team)
	if err != nil {
		return nil, fmt.Errorf("encoding team: %w", err)
	}
	return data, nil
}

// DecodeTeam validates data against the team schema and decodes it. Every
// failure is returned as a *DecodeError.
func DecodeTeam(data []byte) ([]Member, error) {
	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling team schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if !result.Valid() {
		var violations []string
		for _, re := range result.Errors() {
			violations = append(violations, re.String())
		}
		return nil, &DecodeError{Violations: violations}
	}

	var team []Member
	if err := json.Unmarshal(data, &team); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if team == nil {
		team = []Member{}
	}
	return team, nil
}
