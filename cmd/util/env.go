package util

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// GetEnvWithDefault returns the value of an environment variable or a default value if not set
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBoolWithDefault returns the value of an environment variable as bool or a default value if not set
func GetEnvBoolWithDefault(envVar string, defaultValue bool) bool {
	if value := os.Getenv(envVar); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// ApplyEnvString sets *ptr from envVar unless the flag was given explicitly
func ApplyEnvString(cmd *cobra.Command, flag, envVar string, ptr *string) {
	if cmd.Flags().Changed(flag) {
		return
	}
	*ptr = GetEnvWithDefault(envVar, *ptr)
}

// ApplyEnvBool sets *ptr from envVar unless the flag was given explicitly
func ApplyEnvBool(cmd *cobra.Command, flag, envVar string, ptr *bool) {
	if cmd.Flags().Changed(flag) {
		return
	}
	*ptr = GetEnvBoolWithDefault(envVar, *ptr)
}
