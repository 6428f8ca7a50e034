package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/karbar/resumeforge/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default configuration file",
	Long: `Create a default configuration file.

Writes $HOME/.resumeforge/config.json unless --config points elsewhere.
Edit it afterwards to add your Gemini API key and adjust paths.`,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	err = config.InitConfig(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to create config")
		return err
	}

	path := getConfigFile()
	if path == "" {
		path = "$HOME/.resumeforge/config.json"
	}
	fmt.Printf("Created %s\n", path)
	fmt.Println("Add your Gemini API key (or set GEMINI_API_KEY) to enable AI-backed skill extraction.")

	return err
}
