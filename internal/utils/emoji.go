package utils

import (
	"github.com/forPelevin/gomoji"
	"github.com/rivo/uniseg"
)

// IsEmoji reports whether s is exactly one Unicode grapheme cluster that
// carries the emoji property.  Grapheme counting matters because many
// emoji (skin tones, flags, ZWJ families) span several runes; a naive
// len-in-runes check would reject them.
func IsEmoji(s string) bool {
	if s == "" {
		return false
	}
	if uniseg.GraphemeClusterCount(s) != 1 {
		return false
	}
	return gomoji.ContainsEmoji(s)
}
