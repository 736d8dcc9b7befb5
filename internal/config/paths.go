package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ in p.
// $VAR and ${VAR} work everywhere; %VAR% is also expanded on Windows.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = expandPercentVars(p)
	}
	return expandHome(p)
}

// expandHome replaces a leading "~" or "~/" (also "~\" on Windows) with the
// user's home directory. "~user" forms are left alone.
func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~")
	if !ok {
		return p
	}
	if rest != "" && rest[0] != '/' && (runtime.GOOS != "windows" || rest[0] != '\\') {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

// expandPercentVars replaces %NAME% with the value of NAME. Unset names,
// "%%" and a trailing lone % are kept as written.
func expandPercentVars(p string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(p, '%')
		if start < 0 {
			break
		}
		length := strings.IndexByte(p[start+1:], '%')
		if length < 0 {
			break
		}
		name := p[start+1 : start+1+length]
		b.WriteString(p[:start])
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(val)
		} else {
			b.WriteString(p[start : start+length+2])
		}
		p = p[start+length+2:]
	}
	b.WriteString(p)
	return b.String()
}
