package io

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/matzehuels/kleviz/pkg/errors"
)

// LayoutExt is the extension matched when a directory is given.
const LayoutExt = ".json"

// Discover expands args into layout file paths. The result keeps the order
// of args; files found by one directory or pattern are sorted. A pattern
// or directory that matches nothing is an error, since it is almost always
// a typo.
func Discover(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyBatch, "no layout files given")
	}

	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			info, err := os.Stat(arg)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", arg)
			}
			if !info.IsDir() {
				add(arg)
				continue
			}
			arg = strings.TrimSuffix(filepath.ToSlash(arg), "/") + "/**/*" + LayoutExt
		}

		matches, err := expand(arg)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, errors.New(errors.ErrCodeFileNotFound, "no layout files match %s", arg)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

// expand walks the static prefix of pattern and returns the sorted files
// matching it.
func expand(pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")

	globs, err := compile(pattern)
	if err != nil {
		return nil, err
	}

	root := staticRoot(pattern)
	var matches []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		slashed := filepath.ToSlash(path)
		for _, g := range globs {
			if g.Match(slashed) {
				matches = append(matches, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", root)
	}
	sort.Strings(matches)
	return matches, nil
}

// compile returns the glob for pattern plus, for every "**/" segment, the
// variant in which it matches zero directories.
func compile(pattern string) ([]glob.Glob, error) {
	variants := []string{pattern}
	if strings.Contains(pattern, "/**/") {
		variants = append(variants, strings.ReplaceAll(pattern, "/**/", "/"))
	}
	if strings.HasPrefix(pattern, "**/") {
		variants = append(variants, strings.TrimPrefix(pattern, "**/"))
	}

	globs := make([]glob.Glob, 0, len(variants))
	for _, v := range variants {
		g, err := glob.Compile(v, '/')
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "bad pattern %q", pattern)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// staticRoot returns the leading path segments of pattern that contain no
// glob syntax.
func staticRoot(pattern string) string {
	segs := strings.Split(pattern, "/")
	i := 0
	for i < len(segs)-1 && !hasMeta(segs[i]) {
		i++
	}
	root := strings.Join(segs[:i], "/")
	switch {
	case root == "" && strings.HasPrefix(pattern, "/"):
		return "/"
	case root == "":
		return "."
	}
	return filepath.FromSlash(root)
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
