package resume

// FragmentableSections are the JSON-Resume array sections that may be
// split into per-item fragment files, one directory per section. The
// "basics" object is not fragmentable; it always lives in basics.json.
var FragmentableSections = []string{
	"work",
	"education",
	"skills",
	"languages",
	"certificates",
	"awards",
	"volunteer",
	"publications",
	"projects",
	"interests",
	"references",
}
