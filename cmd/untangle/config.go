package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"untangle/internal/config"
)

var configShowFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect untangle's resolved configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the fully resolved configuration and its provenance",
	Long: `show prints the five-layer resolved configuration (defaults,
user config, project .untangle.toml, environment variables, CLI flags)
together with a per-key provenance trail recording which layer supplied
each value. The text format lists only each key and its source; the json
and yaml formats also include the resolved values.`,
	RunE: runConfigShow,
}

func init() {
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "text", "Output format (text, json, yaml)")
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

// configShowReport is the serializable shape of `config show`'s json/yaml
// output: the resolved config plus a flattened provenance table.
type configShowReport struct {
	ConfigPath string            `json:"config_path,omitempty" yaml:"config_path,omitempty"`
	Config     config.Resolved   `json:"config" yaml:"config"`
	Provenance map[string]string `json:"provenance" yaml:"provenance"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(".")
	if err != nil {
		return err
	}
	result, err := config.ResolveConfig(root, config.CliOverrides{})
	if err != nil {
		return err
	}

	provenance := make(map[string]string, len(result.Provenance.Keys()))
	for _, key := range result.Provenance.Keys() {
		src, _ := result.Provenance.Get(key)
		provenance[key] = src.String()
	}
	report := configShowReport{ConfigPath: result.ConfigPath, Config: result.Config, Provenance: provenance}

	switch configShowFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(report)
	case "text":
		return printConfigText(result)
	default:
		return fmt.Errorf("unknown format %q (config show supports text, json, yaml)", configShowFormat)
	}
}

func printConfigText(result *config.Result) error {
	if result.ConfigPath != "" {
		fmt.Printf("Project config: %s\n", result.ConfigPath)
	} else {
		fmt.Println("Project config: (none found, using defaults)")
	}
	fmt.Println()
	fmt.Println("Resolved keys")
	fmt.Println("-------------")
	for _, key := range result.Provenance.Keys() {
		src, _ := result.Provenance.Get(key)
		fmt.Printf("%-40s %s\n", key, src)
	}
	return nil
}
