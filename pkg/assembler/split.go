package assembler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// SplitResult reports one section exploded into fragment files.
type SplitResult struct {
	Section string
	Count   int
}

// SplitSection explodes one array section of a profile's resume.json
// into numbered fragment files under <profile>/<section>/ and removes
// the array from resume.json. Fields other than the removed section are
// left untouched in the base document.
func SplitSection(profileDir, section string) (count int, err error) {
	var data []byte
	data, err = readBase(profileDir)
	if err != nil {
		return count, err
	}

	value := gjson.GetBytes(data, section)
	if !value.Exists() {
		err = errors.Errorf("no %q section found in %s", section, filepath.Join(profileDir, "resume.json"))
		return count, err
	}
	if !value.IsArray() {
		err = errors.Errorf("section %q is not an array and cannot be fragmented", section)
		return count, err
	}

	count, err = writeFragments(filepath.Join(profileDir, section), value)
	if err != nil {
		return count, err
	}

	data, err = sjson.DeleteBytes(data, section)
	if err != nil {
		err = errors.Wrapf(err, "failed to remove section %q", section)
		return count, err
	}

	err = writeBase(profileDir, data)
	return count, err
}

// SplitAll explodes every fragmentable array section of a profile's
// resume.json and extracts the basics object to basics.json. Sections
// that are absent or not arrays are skipped.
func SplitAll(profileDir string, sections []string) (results []SplitResult, err error) {
	var data []byte
	data, err = readBase(profileDir)
	if err != nil {
		return results, err
	}

	if basics := gjson.GetBytes(data, "basics"); basics.Exists() && basics.IsObject() {
		err = writePretty(filepath.Join(profileDir, "basics.json"), basics.Value())
		if err != nil {
			return results, err
		}

		data, err = sjson.DeleteBytes(data, "basics")
		if err != nil {
			err = errors.Wrap(err, "failed to remove basics from base document")
			return results, err
		}

		results = append(results, SplitResult{Section: "basics", Count: 1})
	}

	for _, section := range sections {
		value := gjson.GetBytes(data, section)
		if !value.Exists() || !value.IsArray() {
			continue
		}

		var count int
		count, err = writeFragments(filepath.Join(profileDir, section), value)
		if err != nil {
			return results, err
		}

		data, err = sjson.DeleteBytes(data, section)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove section %q", section)
			return results, err
		}

		results = append(results, SplitResult{Section: section, Count: count})
	}

	err = writeBase(profileDir, data)
	return results, err
}

// readBase loads the profile's resume.json as raw bytes.
func readBase(profileDir string) (data []byte, err error) {
	info, statErr := os.Stat(profileDir)
	if statErr != nil || !info.IsDir() {
		err = errors.Wrap(ErrProfileNotFound, profileDir)
		return data, err
	}

	path := filepath.Join(profileDir, "resume.json")
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read base document: %s", path)
		return data, err
	}

	if !gjson.ValidBytes(data) {
		err = errors.Wrap(ErrMalformedFragment, path)
		return data, err
	}

	return data, err
}

// writeBase writes the modified base document back to resume.json.
func writeBase(profileDir string, data []byte) (err error) {
	path := filepath.Join(profileDir, "resume.json")
	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write base document: %s", path)
		return err
	}
	return err
}

// writeFragments writes each element of an array value to
// <sectionDir>/<i>.json in array order.
func writeFragments(sectionDir string, value gjson.Result) (count int, err error) {
	err = os.MkdirAll(sectionDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create section directory: %s", sectionDir)
		return count, err
	}

	for i, item := range value.Array() {
		path := filepath.Join(sectionDir, strconv.Itoa(i)+".json")
		err = writePretty(path, item.Value())
		if err != nil {
			return count, err
		}
		count++
	}

	return count, err
}

// writePretty marshals v with two-space indentation and writes it.
func writePretty(path string, v interface{}) (err error) {
	var data []byte
	data, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		err = errors.Wrapf(err, "failed to marshal fragment: %s", path)
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write fragment: %s", path)
		return err
	}

	return err
}
