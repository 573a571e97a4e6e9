package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// OutputFormats are the formats accepted by --output.
var OutputFormats = []string{"table", "json", "yaml"}

// OutputFlags holds the output flags shared by listing commands.
type OutputFlags struct {
	Format string
}

// AddOutputFlags registers --output/-o on cmd and validates its value as it
// is parsed.
func AddOutputFlags(cmd *cobra.Command, formats []string) *OutputFlags {
	flags := &OutputFlags{}
	cmd.Flags().StringVarP(&flags.Format, "output", "o", formats[0],
		fmt.Sprintf("Output format (%s)", strings.Join(formats, "|")))

	AddFlagValidation(cmd, "output", func(format string) error {
		return ValidateFormat(format, formats)
	})
	return flags
}

// BindFlags binds flags to viper configuration keys so that a flag given on
// the command line overrides the config file and environment.
func BindFlags(flags *pflag.FlagSet, bindings map[string]string) {
	for flagName, configKey := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			panic(fmt.Sprintf("binding unknown flag %q", flagName))
		}
		if err := viper.BindPFlag(configKey, flag); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", flagName, err))
		}
	}
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	flag := cmd.Flags().Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateFormat reports an error when format is not one of allowed.
func ValidateFormat(format string, allowed []string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return fmt.Errorf("invalid output format %s, must be one of: %s",
		format, strings.Join(allowed, ", "))
}
