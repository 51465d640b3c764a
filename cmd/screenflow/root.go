package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screenflow/core/internal/catalog"
	"github.com/screenflow/core/internal/config"
	"github.com/screenflow/core/internal/models"
	"github.com/screenflow/core/internal/parser"
	"github.com/screenflow/core/internal/ui"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "screenflow",
		Short:         "screenflow - UI flow diagram tools",
		Long:          ui.Brand.Sprint("screenflow") + " - inspect screen archetypes and project files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("screenflow {{ .Version }}\n")
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default "+config.Path()+")")

	load := func() (*config.Config, error) {
		if cfgPath == "" {
			return config.Load(), nil
		}
		return config.LoadFile(cfgPath)
	}

	root.AddCommand(
		catalogCmd(load),
		validateCmd(),
		migrateCmd(),
		renderCmd(load),
		filenameCmd(),
		configCmd(load, func() string {
			if cfgPath == "" {
				return config.Path()
			}
			return cfgPath
		}),
	)
	return root
}

type configLoader func() (*config.Config, error)

func loadCatalog(load configLoader) (*catalog.Catalog, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	return catalog.LoadAll(cfg.Catalog.Dir)
}

func readProject(path string) (*models.ProjectDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := parser.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// fail prints err in the error colour and returns it so cobra exits 1.
func fail(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", ui.StatusIcon(false), ui.Bad.Sprint(err))
	return err
}
