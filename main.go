// ABOUTME: Entry point for the datapipeline admin console CLI
// ABOUTME: Command-line tool for managing the DataPipeline platform

package main

import (
	"fmt"
	"os"

	"github.com/huyaoxiaohonghong/DataPipeline/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
