package config

import (
	"os"

	"github.com/spf13/cobra"
)

// Priority: default < config file < environment < flag.

// ApplyStringFlag overrides v with flagValue if the flag was explicitly set.
func ApplyStringFlag(cmd *cobra.Command, flagName string, flagValue string, v *StringValue) {
	if cmd.Flags().Changed(flagName) {
		v.Value, v.Source = flagValue, SourceFlag
	}
}

// ApplyBoolFlag overrides v with flagValue if the flag was explicitly set.
// This keeps an unset boolean flag from overriding a config file true.
func ApplyBoolFlag(cmd *cobra.Command, flagName string, flagValue bool, v *BoolValue) {
	if cmd.Flags().Changed(flagName) {
		v.Value, v.Source = flagValue, SourceFlag
	}
}

// ApplyEnvString overrides v with the environment variable if it is set and non-empty.
func ApplyEnvString(envName string, v *StringValue) {
	if value := os.Getenv(envName); value != "" {
		v.Value, v.Source = value, SourceEnvironment
	}
}

// ApplyEnvBool sets v to true if the environment variable is present.
// Env vars for bools mean "enable", like NO_COLOR.
func ApplyEnvBool(envName string, v *BoolValue) {
	if _, ok := os.LookupEnv(envName); ok {
		v.Value, v.Source = true, SourceEnvironment
	}
}
