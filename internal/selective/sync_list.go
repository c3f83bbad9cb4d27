package selective

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Rule is one include or exclude pattern. Absolute rules start with "/" and
// are anchored at the walk root.
type Rule struct {
	Pattern  string
	Exclude  bool
	Absolute bool
}

// List decides which paths below the walk root are profiled.
type List struct {
	Rules           []Rule
	IncludeAbs      []string
	IncludeAnywhere []string
	ExcludeAbs      []string
	ExcludeAnywhere []string
	HasRules        bool
}

// Load reads a rule list: one pattern per line, "!" or "-" marks an exclude,
// "#" and ";" start comments. A missing file yields an empty list.
func Load(path string) (*List, error) {
	l := &List{}
	if path == "" {
		return l, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return l, nil
		}
		return l, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		ex := false
		if strings.HasPrefix(line, "!") || strings.HasPrefix(line, "-") {
			ex = true
			line = line[1:]
		}
		l.add(line, ex)
	}
	l.HasRules = len(l.Rules) > 0
	return l, sc.Err()
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\\", "/")
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, "/*")
}

func (l *List) add(raw string, exclude bool) {
	p := normalize(raw)
	if p == "" || p == "/" {
		return
	}
	abs := strings.HasPrefix(p, "/")
	l.Rules = append(l.Rules, Rule{Pattern: p, Exclude: exclude, Absolute: abs})
	switch {
	case exclude && abs:
		l.ExcludeAbs = append(l.ExcludeAbs, p)
	case exclude:
		l.ExcludeAnywhere = append(l.ExcludeAnywhere, p)
	case abs:
		l.IncludeAbs = append(l.IncludeAbs, p)
	default:
		l.IncludeAnywhere = append(l.IncludeAnywhere, p)
	}
}

// ShouldVisit reports whether pathRel (slash separated, relative to the walk
// root) is profiled. Excludes win over includes; with no include rules
// everything not excluded is visited. Directories on the way to an anchored
// include are visited so the walk can reach it.
func (l *List) ShouldVisit(pathRel string, isDir bool) bool {
	if l == nil || !l.HasRules {
		return true
	}
	p := "/" + strings.TrimPrefix(strings.ReplaceAll(pathRel, "\\", "/"), "/")
	if l.matchExclude(p) {
		return false
	}
	if len(l.IncludeAbs)+len(l.IncludeAnywhere) > 0 {
		return l.matchInclude(p, isDir)
	}
	return true
}

func (l *List) matchExclude(p string) bool {
	for _, rule := range l.ExcludeAbs {
		if underPrefix(p, rule) {
			return true
		}
	}
	base := filepath.Base(p)
	for _, rule := range l.ExcludeAnywhere {
		if matchAnywhere(p, base, rule) {
			return true
		}
	}
	return false
}

func (l *List) matchInclude(p string, isDir bool) bool {
	for _, rule := range l.IncludeAbs {
		if underPrefix(p, rule) || (isDir && underPrefix(rule, p)) {
			return true
		}
	}
	// Anywhere rules may match deeper down, so every directory stays open.
	if isDir && len(l.IncludeAnywhere) > 0 {
		return true
	}
	base := filepath.Base(p)
	for _, rule := range l.IncludeAnywhere {
		if matchAnywhere(p, base, rule) {
			return true
		}
	}
	return false
}

// underPrefix reports whether p equals prefix or lies below it.
func underPrefix(p, prefix string) bool {
	return p == prefix || strings.HasPrefix(p, strings.TrimSuffix(prefix, "/")+"/")
}

func matchAnywhere(full, base, rule string) bool {
	if strings.ContainsAny(rule, "*?[") {
		if ok, _ := filepath.Match(rule, base); ok {
			return true
		}
		ok, _ := filepath.Match(rule, strings.TrimPrefix(full, "/"))
		return ok
	}
	for _, seg := range strings.Split(strings.Trim(full, "/"), "/") {
		if seg == rule {
			return true
		}
	}
	return false
}
