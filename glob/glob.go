// Package glob matches file paths against shell-like patterns such as
// "logs/*.txt" or "logs/{today,yesterday}/log.txt".
package glob

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

type Glob interface {
	Match(name string) bool
	Prefix() string
}

type globber struct {
	pattern string
	glob    glob.Glob
}

func MustCompile(pattern string, separators ...rune) Glob {
	g := glob.MustCompile(pattern, separators...)

	return &globber{pattern: pattern, glob: g}
}

func Compile(pattern string, separators ...rune) (Glob, error) {
	g, err := glob.Compile(pattern, separators...)
	if err != nil {
		return nil, err
	}

	return &globber{pattern: pattern, glob: g}, nil
}

func (g *globber) Match(name string) bool {
	return g.glob.Match(name)
}

func (g *globber) Prefix() string {
	return Prefix(g.pattern)
}

// Prefix returns the part of the pattern before the first meta character.
func Prefix(pattern string) string {
	index := strings.IndexAny(pattern, "*?[{")
	if index == -1 {
		return pattern
	}

	return strings.Clone(pattern[:index])
}

func IsPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Match returns whether the name matches the glob pattern, also considering
// one or several optionnal separator. An error is only returned if the pattern
// is invalid.
func Match(pattern, name string, separators ...rune) (bool, error) {
	g, err := Compile(pattern, separators...)
	if err != nil {
		return false, err
	}

	return g.Match(name), nil
}

// Expand returns the regular files matching the pattern, sorted lexically.
// Paths are compared in slash form, so a pattern written with forward slashes
// works on every platform. A pattern without meta characters is returned as
// is, whether the file exists or not.
func Expand(pattern string) ([]string, error) {
	if !IsPattern(pattern) {
		return []string{pattern}, nil
	}

	slashed := filepath.ToSlash(filepath.Clean(pattern))

	g, err := Compile(slashed, '/')
	if err != nil {
		return nil, err
	}

	root := filepath.Dir(filepath.FromSlash(Prefix(slashed) + "x"))

	matches := []string{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return nil
			}
			return err
		}

		if d.IsDir() {
			return nil
		}

		if g.Match(filepath.ToSlash(path)) {
			matches = append(matches, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)

	return matches, nil
}
