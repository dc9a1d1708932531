package resume

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// ErrMissingName is returned when basics.name is absent or empty after
// resolution, so no output filename can be derived.
var ErrMissingName = errors.New("basics.name is missing or empty")

// OutputName derives the LASTNAME-FIRSTNAME output filename stem from a
// marshaled resolved document. The last whitespace-separated token of
// basics.name is the surname; the preceding tokens are the given name.
// Both are uppercased and hyphen-joined, so "John Smith" becomes
// SMITH-JOHN and "Mary Jane Watson" becomes WATSON-MARY-JANE. A
// single-token name yields just that token.
func OutputName(doc []byte) (name string, err error) {
	full := strings.TrimSpace(gjson.GetBytes(doc, "basics.name").String())
	if full == "" {
		err = errors.Wrap(ErrMissingName, "cannot derive output filename")
		return name, err
	}

	parts := strings.Fields(full)
	if len(parts) == 1 {
		name = strings.ToUpper(parts[0])
		return name, err
	}

	surname := strings.ToUpper(parts[len(parts)-1])
	given := strings.ToUpper(strings.Join(parts[:len(parts)-1], "-"))
	name = surname + "-" + given

	return name, err
}
