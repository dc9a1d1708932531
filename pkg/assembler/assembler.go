package assembler

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// Sentinel errors for the structural failure modes of assembly. They are
// always returned wrapped with the offending path.
var (
	// ErrProfileNotFound is returned when the profile directory does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrMissingBasics is returned when a profile has no basics.json.
	ErrMissingBasics = errors.New("basics.json not found")

	// ErrMalformedFragment is returned when a fragment file is not valid JSON.
	ErrMalformedFragment = errors.New("malformed fragment")
)

// Assemble merges a profile directory into a single resume document.
//
// The document starts from an optional resume.json base holding any
// non-fragmented fields. basics.json is mandatory and becomes the
// top-level "basics" object, overriding any basics key in the base. Each
// named section with a fragment directory present contributes one array
// built by concatenating its fragment files in numeric-prefix order.
// Absent section directories contribute nothing.
func Assemble(profileDir string, sections []string) (doc map[string]interface{}, err error) {
	info, statErr := os.Stat(profileDir)
	if statErr != nil || !info.IsDir() {
		err = errors.Wrap(ErrProfileNotFound, profileDir)
		return doc, err
	}

	doc = make(map[string]interface{})

	basePath := filepath.Join(profileDir, "resume.json")
	if _, statErr = os.Stat(basePath); statErr == nil {
		err = loadJSON(basePath, &doc)
		if err != nil {
			return doc, err
		}
		// A base document of JSON null unmarshals to a nil map.
		if doc == nil {
			doc = make(map[string]interface{})
		}
	}

	basicsPath := filepath.Join(profileDir, "basics.json")
	if _, statErr = os.Stat(basicsPath); statErr != nil {
		err = errors.Wrapf(ErrMissingBasics, "profile %s", profileDir)
		return doc, err
	}

	var basics map[string]interface{}
	err = loadJSON(basicsPath, &basics)
	if err != nil {
		return doc, err
	}
	doc["basics"] = basics

	for _, section := range sections {
		var items []interface{}
		items, err = mergeSection(filepath.Join(profileDir, section))
		if err != nil {
			return doc, err
		}
		if items != nil {
			doc[section] = items
		}
	}

	return doc, err
}

// DiscoverProfiles lists the profile directories under profilesDir.
func DiscoverProfiles(profilesDir string) (profiles []string, err error) {
	entries, readErr := os.ReadDir(profilesDir)
	if readErr != nil {
		err = errors.Wrapf(readErr, "failed to list profiles directory: %s", profilesDir)
		return profiles, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			profiles = append(profiles, entry.Name())
		}
	}

	return profiles, err
}

// mergeSection concatenates the fragment files in sectionDir into one
// array. A missing or empty directory yields nil, meaning the section
// does not appear in the merged document. A fragment containing an array
// is spliced element by element; a single object is appended as one
// element, so both one-item-per-file and multi-item files work.
func mergeSection(sectionDir string) (items []interface{}, err error) {
	info, statErr := os.Stat(sectionDir)
	if statErr != nil || !info.IsDir() {
		return items, err
	}

	entries, readErr := os.ReadDir(sectionDir)
	if readErr != nil {
		err = errors.Wrapf(readErr, "failed to list section directory: %s", sectionDir)
		return items, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, entry.Name())
	}
	sortFragments(names)

	for _, name := range names {
		path := filepath.Join(sectionDir, name)
		var fragment interface{}
		err = loadJSON(path, &fragment)
		if err != nil {
			return items, err
		}

		if seq, isSeq := fragment.([]interface{}); isSeq {
			items = append(items, seq...)
		} else {
			items = append(items, fragment)
		}
	}

	return items, err
}

// sortFragments orders fragment filenames by their leading numeric
// prefix, with ties broken lexicographically. Names without a numeric
// prefix sort after all numbered ones, by filename. Authors renumber
// files to reorder; filesystem listing order never matters.
func sortFragments(names []string) {
	sort.SliceStable(names, func(i, j int) (less bool) {
		pi, pj := numericPrefix(names[i]), numericPrefix(names[j])
		if pi != pj {
			less = pi < pj
			return less
		}
		less = names[i] < names[j]
		return less
	})
}

// numericPrefix parses the leading digits of a filename. Names without
// one, or with a prefix too large for int64, return MaxInt64 so they
// order last.
func numericPrefix(name string) (prefix int64) {
	end := 0
	for end < len(name) && name[end] >= '0' && name[end] <= '9' {
		end++
	}

	if end == 0 {
		prefix = math.MaxInt64
		return prefix
	}

	parsed, parseErr := strconv.ParseInt(name[:end], 10, 64)
	if parseErr != nil {
		prefix = math.MaxInt64
		return prefix
	}

	prefix = parsed
	return prefix
}

// loadJSON reads and parses one JSON file into out. Parse failures wrap
// ErrMalformedFragment and name the file.
func loadJSON(path string, out interface{}) (err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return err
	}

	parseErr := json.Unmarshal(data, out)
	if parseErr != nil {
		err = errors.Wrapf(ErrMalformedFragment, "%s: %v", path, parseErr)
		return err
	}

	return err
}
