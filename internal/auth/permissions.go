package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/internal/common"
)

// Wildcard grants every action of a module, as in "gastos:*".
const Wildcard = "*"

// DefaultGrants maps roles to "module:action" grants when no grants file is configured.
var DefaultGrants = map[string][]string{
	"admin": {"gastos:*", "catalogos:*"},
	"gerente": {
		"gastos:ver", "gastos:crear", "gastos:editar", "gastos:exportar",
		"catalogos:ver",
	},
	"recepcion": {"gastos:ver", "gastos:crear", "catalogos:ver"},
}

// grantsSchema validates a grants file: {"roles": {"<role>": ["module:action", ...]}}.
var grantsSchema = map[string]any{
	"$schema":              "http://json-schema.org/draft-07/schema#",
	"type":                 "object",
	"additionalProperties": false,
	"required":             []any{"roles"},
	"properties": map[string]any{
		"roles": map[string]any{
			"type": "object",
			"additionalProperties": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"items": map[string]any{
					"type":    "string",
					"pattern": `^[a-z_]+:([a-z_]+|\*)$`,
				},
			},
		},
	},
}

type grantsFile struct {
	Roles map[string][]string `json:"roles"`
}

// Oracle answers permission questions from an immutable role table.
type Oracle struct {
	grants map[string]map[constants.Permission]struct{}
}

// NewOracle expands grants into a lookup table. Unknown permissions are rejected.
func NewOracle(grants map[string][]string) (*Oracle, error) {
	o := &Oracle{grants: make(map[string]map[constants.Permission]struct{}, len(grants))}
	for role, list := range grants {
		set := make(map[constants.Permission]struct{})
		for _, g := range list {
			perms, err := expand(g)
			if err != nil {
				return nil, fmt.Errorf("role %q: %w", role, err)
			}
			for _, p := range perms {
				set[p] = struct{}{}
			}
		}
		o.grants[role] = set
	}
	return o, nil
}

// HasPermission reports whether the principal's role grants module:action.
func (o *Oracle) HasPermission(rc common.RequestContext, module constants.Module, action constants.Action) bool {
	if !rc.Authenticated() {
		return false
	}
	_, ok := o.grants[rc.Role][constants.Permission{Module: module, Action: action}]
	return ok
}

// Check is HasPermission returning a *ForbiddenError or UnauthenticatedError.
func (o *Oracle) Check(rc common.RequestContext, module constants.Module, action constants.Action) error {
	if !rc.Authenticated() {
		return common.UnauthenticatedError{}
	}
	if !o.HasPermission(rc, module, action) {
		return &common.ForbiddenError{Module: string(module), Action: string(action)}
	}
	return nil
}

func expand(grant string) ([]constants.Permission, error) {
	module, action, ok := strings.Cut(grant, ":")
	if !ok {
		return nil, fmt.Errorf("malformed grant %q", grant)
	}
	var out []constants.Permission
	for p := range constants.PermissionDescriptions {
		if string(p.Module) == module && (action == Wildcard || string(p.Action) == action) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("unknown permission %q", grant)
	}
	return out, nil
}

// LoadGrants reads and validates a grants file. An empty path returns DefaultGrants.
func LoadGrants(path string) (map[string][]string, error) {
	if path == "" {
		return DefaultGrants, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grants file: %w", err)
	}
	return ParseGrants(data)
}

// ParseGrants validates data against the grants schema and decodes it.
func ParseGrants(data []byte) (map[string][]string, error) {
	if err := validateJSONAgainstSchema(grantsSchema, data); err != nil {
		return nil, err
	}
	var gf grantsFile
	if err := json.Unmarshal(data, &gf); err != nil {
		return nil, fmt.Errorf("decode grants: %w", err)
	}
	return gf.Roles, nil
}

func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("grants.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("grants.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal grants: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("grants do not match schema: %w", err)
	}
	return nil
}
