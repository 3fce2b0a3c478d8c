package deploy

import (
	"fmt"
	"strings"
	"time"
)

// ResourceName expands a bare reasoning engine ID into its full resource
// name. Full names are returned unchanged.
func ResourceName(projectID, location, resourceID string) string {
	if strings.HasPrefix(resourceID, "projects/") {
		return resourceID
	}
	return fmt.Sprintf("projects/%s/locations/%s/reasoningEngines/%s", projectID, location, resourceID)
}

// ParentName is the collection reasoning engines are created under.
func ParentName(projectID, location string) string {
	return fmt.Sprintf("projects/%s/locations/%s", projectID, location)
}

// EngineSpec is what gets registered with the managed agent runtime.
type EngineSpec struct {
	DisplayName string
	Description string
	PackageURI  string
	ManifestURI string
	Env         map[string]string
}

// Engine is a registered remote deployment.
type Engine struct {
	Name        string
	DisplayName string
	CreateTime  time.Time
}
