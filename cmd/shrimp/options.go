package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shrimp-lang/shrimp"
	"github.com/shrimp-lang/shrimp/registry"
)

// loadRegistry returns the registry named by the registry setting, or the
// built-in one.
func loadRegistry() (*registry.Registry, error) {
	path := viper.GetString("registry")
	if path == "" {
		return registry.Default(), nil
	}
	return registry.LoadFile(path)
}

func getShrimpOptions(cmd *cobra.Command, filename string) ([]shrimp.Option, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	opts := []shrimp.Option{
		shrimp.WithRegistry(reg),
		shrimp.WithLogger(logger),
		shrimp.WithOutput(cmd.OutOrStdout()),
	}
	if filename != "" {
		opts = append(opts, shrimp.WithFilename(filename))
	}
	return opts, nil
}

// source is a program read from the command line.
type source struct {
	code     string
	filename string
}

func (s source) isBytecode() bool {
	return filepath.Ext(s.filename) == ".shb"
}

// getSource determines what code a command works on. There are three
// possibilities: --code, --stdin, or a path as args[0].
func getSource(cmd *cobra.Command, args []string) (source, error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	pathSupplied := len(args) > 0

	count := 0
	for _, set := range []bool{codeSet, stdinSet, pathSupplied} {
		if set {
			count++
		}
	}
	if count > 1 {
		return source{}, errors.New("multiple input sources specified")
	}
	if count == 0 {
		return source{}, errors.New("no input provided")
	}

	switch {
	case stdinSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return source{}, err
		}
		return source{code: string(data)}, nil
	case pathSupplied:
		path, err := homedir.Expand(args[0])
		if err != nil {
			return source{}, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return source{}, err
		}
		return source{code: string(data), filename: args[0]}, nil
	}
	code, _ := cmd.Flags().GetString("code")
	return source{code: code}, nil
}
