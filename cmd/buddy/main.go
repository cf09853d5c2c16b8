// Package main is the single-binary entrypoint for Buddy.
package main

import "github.com/ai-buddy/buddy/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
