// Command generate-config writes config.example.yaml with every default
// filled in.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/debemdeboas/folio/internal/auth"
	"github.com/debemdeboas/folio/internal/config"
	"gopkg.in/yaml.v3"
)

// secrets are read from the environment, or from a .env file next to the
// binary, and never from config.yaml.
var secrets = []struct{ name, use string }{
	{auth.PasswordEnv, "admin dashboard password"},
	{"FOLIO_GITHUB_TOKEN", "log in to remote.owner/remote.repo at startup"},
	{"FOLIO_S3_ACCESS_KEY_ID", "assets.backend: s3"},
	{"FOLIO_S3_SECRET_ACCESS_KEY", "assets.backend: s3"},
	{"FOLIO_CONFIG", "config file path, default config.yaml"},
}

func render(cfg *config.Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# Folio configuration example\n")
	buf.WriteString("# Copy this file to config.yaml and customize as needed\n#\n")
	buf.WriteString("# Environment:\n")
	for _, s := range secrets {
		fmt.Fprintf(&buf, "#   %-28s %s\n", s.name, s.use)
	}
	buf.WriteString("\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func main() {
	output, err := render(config.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating YAML: %v\n", err)
		os.Exit(1)
	}

	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	if outputFile == "-" {
		os.Stdout.Write(output)
		return
	}
	if err := os.WriteFile(outputFile, output, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}
