package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/shrimp-lang/shrimp/errors"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// useColor reports whether output may be colored.
func useColor() bool {
	return !viper.GetBool("no-color") && isTerminal(os.Stdout)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if !useColor() {
		color.NoColor = true
	}
}

// formatError renders err with source context when it carries a location.
func formatError(err error) string {
	return strings.TrimRight(errors.Friendly(err, !color.NoColor && isTerminal(os.Stderr)), "\n")
}

// newLogger returns a console logger on w at the configured level.
func newLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return zerolog.Nop(), err
	}
	if level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	if level < zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(level)
	}
	writer := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

var outputFormatsCompletion = []string{"json", "text"}

func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString("output"))
	switch format {
	case "", "text", "json":
		return format, nil
	}
	return "", fmt.Errorf("unknown output format: %s", format)
}

// marshalJSON renders v as indented JSON, colorized unless color is off.
func marshalJSON(v any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(v, "", "  ")
	}
	return prettyjson.Marshal(v)
}

func printJSON(w io.Writer, v any) error {
	data, err := marshalJSON(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
