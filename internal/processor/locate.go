package processor

import (
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// locateJSON finds the engine JSON for stem in dir. Candidates are tried in
// order: <stem>_<timestamp>.json, <stem>.json, the newest <stem>_*.json,
// then the legacy <stem><ext>.json.
func locateJSON(dir, stem, timestamp, ext string) (string, bool) {
	for _, name := range []string{stem + "_" + timestamp + ".json", stem + ".json"} {
		if p := filepath.Join(dir, name); isRegular(p) {
			return p, true
		}
	}

	if p, ok := newestMatch(dir, glob.QuoteMeta(stem)+"_*.json"); ok {
		return p, true
	}

	if p := filepath.Join(dir, stem+ext+".json"); isRegular(p) {
		return p, true
	}
	return "", false
}

func newestMatch(dir, pattern string) (string, bool) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return "", false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	var (
		best     string
		bestInfo os.FileInfo
	)
	for _, e := range entries {
		if e.IsDir() || !g.Match(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if bestInfo == nil || info.ModTime().After(bestInfo.ModTime()) {
			best, bestInfo = filepath.Join(dir, e.Name()), info
		}
	}
	return best, bestInfo != nil
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
