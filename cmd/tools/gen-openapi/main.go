package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"gopkg.in/yaml.v3"

	"github.com/promptdial/promptdial/internal/registry/api"
	v0 "github.com/promptdial/promptdial/internal/registry/api/handlers/v0"
	"github.com/promptdial/promptdial/internal/registry/api/router"
	"github.com/promptdial/promptdial/internal/version"
)

func main() {
	outputPath := flag.String("output", "openapi.yaml", "Output path for OpenAPI spec")
	versionOverride := flag.String("version", "", "Override the API version (defaults to version.Version)")
	flag.Parse()

	apiVersion := version.Version
	if *versionOverride != "" {
		apiVersion = *versionOverride
	}

	spec := generateSpec(apiVersion)

	yamlData, err := yaml.Marshal(spec)
	if err != nil {
		log.Fatalf("Failed to marshal OpenAPI spec to YAML: %v", err)
	}

	if err := os.WriteFile(*outputPath, yamlData, 0644); err != nil {
		log.Fatalf("Failed to write OpenAPI spec to %s: %v", *outputPath, err)
	}

	absPath, err := filepath.Abs(*outputPath)
	if err != nil {
		absPath = *outputPath
	}
	fmt.Printf("OpenAPI spec generated: %s\n", absPath)
}

// generateSpec creates a Huma API, registers all routes, and returns the
// OpenAPI spec.
func generateSpec(apiVersion string) *huma.OpenAPI {
	humaAPI := api.NewAPI(http.NewServeMux(), apiVersion)

	// The service, metrics and auth services are only captured in handler
	// closures and invoked at request time, so nil is fine here.
	router.RegisterRoutes(humaAPI, nil, nil, &v0.VersionBody{Version: apiVersion}, nil)

	return humaAPI.OpenAPI()
}
