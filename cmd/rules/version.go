package main

import (
	"github.com/spf13/cobra"
)

// version 构建时通过 -ldflags 覆盖
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "打印版本号",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("rules version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
