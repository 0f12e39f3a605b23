// Package data embeds the built-in game data.
package data

import "embed"

// DefaultStory is the file name of the built-in newsroom story inside FS.
const DefaultStory = "newsroom.json"

//go:embed *.json
var dataFS embed.FS

// FS returns the embedded filesystem containing game data.
func FS() embed.FS {
	return dataFS
}
