// Package finder locates timeline sources and recorded network logs.
package finder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// File name patterns.
const (
	TimelineExt    = ".txt"
	NetworkLogGlob = "Network_*.log"
)

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
	ErrNoTimelines    = errors.New("no timeline files found")
)

// DefaultLogDirs returns candidate network log directories in priority
// order. Only Windows installations provide defaults.
func DefaultLogDirs() []string {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			appData = filepath.Join(userProfile, "AppData", "Roaming")
		}
	}
	if appData == "" {
		return nil
	}
	return []string{
		filepath.Join(appData, "Advanced Combat Tracker", "FFXIVLogs"),
	}
}

// FindLogDir returns the network log directory: explicit if non-empty,
// otherwise the first of DefaultLogDirs holding log files. The returned
// path has symlinks resolved.
func FindLogDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveLogDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified directory is invalid or contains no log files", ErrLogDirNotFound)
	}
	for _, dir := range DefaultLogDirs() {
		if resolved := resolveLogDir(dir); resolved != "" {
			return resolved, nil
		}
	}
	return "", ErrLogDirNotFound
}

type logCandidate struct {
	path    string
	modTime int64
}

// FindLatestLogFile returns the most recently modified network log in dir.
// Stat results are cached so files removed mid-scan cannot break the sort.
func FindLatestLogFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, NetworkLogGlob))
	if err != nil {
		return "", fmt.Errorf("globbing log files: %w", err)
	}

	candidates := make([]logCandidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, logCandidate{path: m, modTime: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", ErrNoLogFiles
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})
	return candidates[0].path, nil
}

// FindTimelines expands paths into timeline files. Directories are walked
// recursively for TimelineExt files; other paths are kept as given, so a
// missing file surfaces when it is read. The result is sorted and free of
// duplicates.
func FindTimelines(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && strings.EqualFold(filepath.Ext(path), TimelineExt) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking timeline directory: %w", err)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoTimelines
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

func resolveLogDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	matches, err := filepath.Glob(filepath.Join(resolved, NetworkLogGlob))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return resolved
}
