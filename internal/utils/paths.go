package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	unsafeFolderChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]+`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	numberPrefix      = regexp.MustCompile(`^\d{6}_`)
)

// ExpandHome resolves a leading "~" to the current user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// SanitizeFolderName turns a display name into something safe to use as a
// single directory name on every platform the studio runs.
func SanitizeFolderName(name string) string {
	s := strings.TrimSpace(unsafeFolderChars.ReplaceAllString(name, " "))
	s = whitespaceRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "._")
}

// DisplayNameFromFolder strips a leading YYNNNN_ project number.
//
//	250001_Foo -> Foo
//	Foo        -> Foo
func DisplayNameFromFolder(folder string) string {
	if loc := numberPrefix.FindStringIndex(folder); loc != nil && loc[1] < len(folder) {
		return folder[loc[1]:]
	}
	return folder
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ValidName reports whether s can be used as a single path element.
func ValidName(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}
