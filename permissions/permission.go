package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern. An empty Permissions list lets any
// authenticated caller through.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// Lookup finds the entry for a chi route pattern. Methods compare case-insensitively.
func (r *PermissionData) Lookup(path, method string) (Permission, bool) {
	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && strings.EqualFold(rp.Method, method)
	})

	if idx == -1 {
		return Permission{}, false
	}

	return r.Endpoints[idx], true
}

// Allows reports whether role may call the route. Routes missing from the table only need a
// valid token.
func (r *PermissionData) Allows(role, path, method string) bool {
	if r.Skip {
		return true
	}

	permission, ok := r.Lookup(path, method)
	if !ok || permission.Skip || len(permission.Permissions) == 0 {
		return true
	}

	return slices.Contains(permission.Permissions, role)
}

func parse(raw []byte) (*PermissionData, error) {
	var data PermissionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err //nolint:wrapcheck
	}

	for i := range data.Endpoints {
		data.Endpoints[i].Method = strings.ToUpper(data.Endpoints[i].Method)
	}

	return &data, nil
}

// Get loads the embedded route table. A broken table yields nil, which RBAC treats as deny-all.
func Get() *PermissionData {
	data, err := parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("Successfully loaded embedded permissions")

	return data
}
