package codechunk

import (
	"sort"
	"strings"
)

// language describes how cmd=true runs a chunk of a given language.
type language struct {
	program string
	args    []string
	ext     string
}

var languages = map[string]language{
	"python":     {program: "python3", ext: "py"},
	"py":         {program: "python3", ext: "py"},
	"python3":    {program: "python3", ext: "py"},
	"javascript": {program: "node", ext: "js"},
	"js":         {program: "node", ext: "js"},
	"bash":       {program: "bash", ext: "sh"},
	"sh":         {program: "sh", ext: "sh"},
	"zsh":        {program: "zsh", ext: "zsh"},
	"ruby":       {program: "ruby", ext: "rb"},
	"perl":       {program: "perl", ext: "pl"},
	"php":        {program: "php", ext: "php"},
	"r":          {program: "Rscript", ext: "R"},
	"go":         {program: "go", args: []string{"run"}, ext: "go"},
}

// programFor returns the runner for lang. Unknown languages run a program
// named after the language with the language as file extension.
func programFor(lang string) language {
	lang = strings.ToLower(lang)
	if l, ok := languages[lang]; ok {
		return l
	}
	return language{program: lang, ext: lang}
}

// Extension returns the source file extension for lang.
func Extension(lang string) string {
	return programFor(lang).ext
}

// Programs lists the interpreters known languages run with, sorted and
// deduplicated.
func Programs() []string {
	seen := make(map[string]bool, len(languages))
	var programs []string
	for _, l := range languages {
		if !seen[l.program] {
			seen[l.program] = true
			programs = append(programs, l.program)
		}
	}
	sort.Strings(programs)
	return programs
}
